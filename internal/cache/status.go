// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// status.go provides a Valkey-backed cache for short-lived JSON values,
// such as the provider connectivity probe, so repeated health checks do not
// spend provider quota.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// statusKeyPrefix is the Valkey key prefix for cached status values.
	statusKeyPrefix = "status:"

	// DefaultStatusTTL is how long a status value stays cached.
	DefaultStatusTTL = 60 * time.Second
)

// StatusCache stores JSON-encoded values in Valkey with a fixed TTL.
// A nil *StatusCache is valid and behaves as a cache that always misses.
type StatusCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatusCache creates a new status cache backed by the given Valkey client.
func NewStatusCache(client *redis.Client, ttl time.Duration) *StatusCache {
	if ttl == 0 {
		ttl = DefaultStatusTTL
	}
	return &StatusCache{client: client, ttl: ttl}
}

// Get decodes the cached value for key into dst. Returns false on a miss
// or on any Valkey or decode error.
func (sc *StatusCache) Get(ctx context.Context, key string, dst any) bool {
	if sc == nil || sc.client == nil {
		return false
	}
	val, err := sc.client.Get(ctx, statusKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		slog.Warn("status cache get error", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(val, dst); err != nil {
		slog.Warn("status cache decode error", "key", key, "error", err)
		return false
	}
	slog.Debug("status cache hit", "key", key)
	return true
}

// Set stores v under key with the configured TTL. Failures are logged, not
// returned: the cache is an optimisation.
func (sc *StatusCache) Set(ctx context.Context, key string, v any) {
	if sc == nil || sc.client == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		slog.Warn("status cache encode error", "key", key, "error", err)
		return
	}
	if err := sc.client.Set(ctx, statusKeyPrefix+key, data, sc.ttl).Err(); err != nil {
		slog.Warn("status cache set error", "key", key, "error", err)
	}
}

// Invalidate removes a single key.
func (sc *StatusCache) Invalidate(ctx context.Context, key string) {
	if sc == nil || sc.client == nil {
		return
	}
	if err := sc.client.Del(ctx, statusKeyPrefix+key).Err(); err != nil {
		slog.Warn("status cache invalidate error", "key", key, "error", err)
	}
}

// InvalidateAll removes every status key by scanning for the prefix.
func (sc *StatusCache) InvalidateAll(ctx context.Context) {
	if sc == nil || sc.client == nil {
		return
	}
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := sc.client.Scan(ctx, cursor, statusKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("status cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := sc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("status cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("status cache cleared", "deleted", deleted)
	}
}
