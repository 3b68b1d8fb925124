// Copyright (c) 2026 TaskPro. All rights reserved.
// Author: humza.khawar.dev@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/khawarh/taskpro/internal/platform/apperr"
	"github.com/khawarh/taskpro/internal/platform/constants"
)

// # Session Cache

// RedisSessionCache implements SessionCache using Redis.
//
// Each entry maps (userID, tokenHash) to the session's Unix expiry, TTL-bound
// so stale entries evaporate no later than the session itself. The ledger in
// Postgres stays the source of truth; this is only the O(1) fast path.
type RedisSessionCache struct {
	client *redis.Client
}

// NewSessionCache creates a new Redis-backed SessionCache.
func NewSessionCache(client *redis.Client) *RedisSessionCache {
	return &RedisSessionCache{client: client}
}

/*
Set stores the expiry for a (userID, tokenHash) pair.

Description: Entries already past their expiry are skipped silently; caching
a dead session would only create a key that immediately evicts.

Parameters:
  - context: context.Context
  - userID: string
  - tokenHash: string
  - expiresAt: time.Time

Returns:
  - error: Execution errors
*/
func (cache *RedisSessionCache) Set(context context.Context, userID, tokenHash string, expiresAt time.Time) error {

	// Bound the key's lifetime to the session's remaining lifetime.
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	key := sessionCacheKey(userID, tokenHash)

	// Store the Unix expiry so readers can re-check it against their own clock
	if err := cache.client.Set(context, key, expiresAt.Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_cache_set_failed: %w", err)
	}

	return nil
}

/*
Get retrieves the expiry recorded for a (userID, tokenHash) pair.

Description: Returns apperr.NotFound on a cache miss; the caller falls back to
the ledger.

Parameters:
  - context: context.Context
  - userID: string
  - tokenHash: string

Returns:
  - time.Time: The session expiry
  - error: apperr.NotFound or connectivity errors
*/
func (cache *RedisSessionCache) Get(context context.Context, userID, tokenHash string) (time.Time, error) {
	key := sessionCacheKey(userID, tokenHash)

	value, err := cache.client.Get(context, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, apperr.NotFound("Session")
		}
		return time.Time{}, fmt.Errorf("redis_session_cache_get_failed: %w", err)
	}

	unixExpiry, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("redis_session_cache_parse_failed: %w", err)
	}

	return time.Unix(unixExpiry, 0), nil
}

// sessionCacheKey builds the namespaced cache key for a session entry.
func sessionCacheKey(userID, tokenHash string) string {
	return constants.RedisPrefixSession + userID + ":" + tokenHash
}
