// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// window holds the request times of one client inside the sliding window.
type window struct {
	mu    sync.Mutex
	times []time.Time
}

// RateLimiter limits requests per client IP with a sliding window. It
// guards the generation endpoints, which each cost a provider call.
type RateLimiter struct {
	mu       sync.RWMutex
	clients  map[string]*window
	limit    int
	period   time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter allows limit requests per period for each client. A limit
// of zero or less disables limiting. A background goroutine evicts idle
// clients until Stop is called.
func NewRateLimiter(limit int, period time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*window),
		limit:   limit,
		period:  period,
		now:     time.Now,
		stopCh:  make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.cleanup()
			case <-rl.stopCh:
				return
			}
		}
	}()

	return rl
}

// Stop terminates the background cleanup goroutine. Safe to call twice.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

func (rl *RateLimiter) clientWindow(key string) *window {
	rl.mu.RLock()
	w, ok := rl.clients[key]
	rl.mu.RUnlock()
	if ok {
		return w
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if w, ok = rl.clients[key]; !ok {
		w = &window{}
		rl.clients[key] = w
	}
	return w
}

// allow records a request for key if it is within the limit. When it is
// not, retryAfter is how long until the oldest request leaves the window.
func (rl *RateLimiter) allow(key string) (ok bool, retryAfter time.Duration) {
	if rl.limit <= 0 {
		return true, 0
	}
	w := rl.clientWindow(key)
	now := rl.now()
	cutoff := now.Add(-rl.period)

	w.mu.Lock()
	defer w.mu.Unlock()

	kept := w.times[:0]
	for _, ts := range w.times {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	w.times = kept

	if len(w.times) >= rl.limit {
		return false, w.times[0].Add(rl.period).Sub(now)
	}
	w.times = append(w.times, now)
	return true, 0
}

// cleanup drops clients with no request inside the window.
func (rl *RateLimiter) cleanup() {
	cutoff := rl.now().Add(-rl.period)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, w := range rl.clients {
		w.mu.Lock()
		idle := len(w.times) == 0 || !w.times[len(w.times)-1].After(cutoff)
		w.mu.Unlock()
		if idle {
			delete(rl.clients, key)
		}
	}
}

// Middleware rejects over-limit requests with 429 and a Retry-After header.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, retryAfter := rl.allow(clientIP(r))
		if !ok {
			secs := int(math.Ceil(retryAfter.Seconds()))
			w.Header().Set("Retry-After", strconv.Itoa(max(secs, 1)))
			writeError(w, "Too many generation requests. Please wait and try again.", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the client's IP address, preferring the leftmost
// X-Forwarded-For entry, then X-Real-IP, then RemoteAddr.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
