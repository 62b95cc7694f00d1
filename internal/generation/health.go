// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package generation

import (
	"context"
	"log/slog"
	"time"

	"brandshot/internal/ai"
	"brandshot/internal/cache"
)

// healthCacheKey is the status cache key for the provider probe.
const healthCacheKey = "provider-health"

// ProviderClient is what the connectivity probe needs from the text
// provider. *ai.Registry satisfies it.
type ProviderClient interface {
	Completer
	ListModels(ctx context.Context) ([]string, error)
}

// Status is the result of a provider connectivity probe.
type Status struct {
	Connected bool   `json:"connected"`
	HasQuota  bool   `json:"hasQuota"`
	Error     string `json:"error,omitempty"`
}

// HealthChecker probes the text provider: a model listing proves the key
// and network work, then a one-token completion detects exhausted quota.
type HealthChecker struct {
	provider ProviderClient
	cache    *cache.StatusCache
	timeout  time.Duration
}

// NewHealthChecker creates a checker. statusCache may be nil.
func NewHealthChecker(provider ProviderClient, statusCache *cache.StatusCache, timeout time.Duration) *HealthChecker {
	return &HealthChecker{provider: provider, cache: statusCache, timeout: timeout}
}

// Check returns the provider status, served from the cache when fresh.
func (h *HealthChecker) Check(ctx context.Context) Status {
	var st Status
	if h.cache.Get(ctx, healthCacheKey, &st) {
		return st
	}
	st = h.probe(ctx)
	h.cache.Set(ctx, healthCacheKey, st)
	return st
}

func (h *HealthChecker) probe(ctx context.Context) Status {
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	if _, err := h.provider.ListModels(ctx); err != nil {
		slog.Warn("provider connection test failed", "error", err)
		return Status{Connected: false, HasQuota: false, Error: ai.Message(err)}
	}

	_, err := h.provider.Complete(ctx, ai.CompletionRequest{User: "test", MaxTokens: 1})
	if err != nil && ai.IsQuotaExceeded(err) {
		return Status{Connected: true, HasQuota: false, Error: "Quota exceeded"}
	}
	if err != nil {
		slog.Debug("provider quota probe failed", "error", err)
	}
	return Status{Connected: true, HasQuota: true}
}
