// Package repo implements the data persistence layer for domain entities.
// This file provides an optional Redis read-through cache for access-gate
// token lookups.
//
// The SQLite row remains the source of truth: tokens are cached only after a
// successful DB read, cache entries expire with the token, and consumption
// writes through to the DB and then invalidates the cache. A cache failure is
// never fatal; callers fall back to the database.
package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/serenemind/go-booking-backend/internal/domain"
)

// TokenCache caches booking-token rows in Redis so access checks from any
// process instance hit a shared store before the database. A nil *TokenCache
// is valid and disables caching.
type TokenCache struct {
	client *redis.Client
}

// NewRedisClient builds a Redis client from address, password, and DB number.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// NewTokenCache wraps an existing Redis client. Pass the result around as a
// possibly-nil pointer; all methods tolerate a nil receiver.
func NewTokenCache(client *redis.Client) *TokenCache {
	if client == nil {
		return nil
	}
	return &TokenCache{client: client}
}

func tokenKey(token string) string { return "booking_token:" + token }

// Get returns the cached token row, or (nil, nil) on a cache miss.
func (c *TokenCache) Get(ctx context.Context, token string) (*domain.BookingToken, error) {
	if c == nil {
		return nil, nil
	}
	val, err := c.client.Get(ctx, tokenKey(token)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("token cache get: %w", err)
	}
	var t domain.BookingToken
	if err := json.Unmarshal([]byte(val), &t); err != nil {
		return nil, fmt.Errorf("token cache unmarshal: %w", err)
	}
	return &t, nil
}

// Put stores the token row with a TTL matching the remaining token lifetime.
// Rows at or past expiry are not cached.
func (c *TokenCache) Put(ctx context.Context, t *domain.BookingToken, now time.Time) error {
	if c == nil || t == nil {
		return nil
	}
	ttl := t.ExpiresAt.Sub(now)
	if ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("token cache marshal: %w", err)
	}
	if err := c.client.Set(ctx, tokenKey(t.Token), data, ttl).Err(); err != nil {
		return fmt.Errorf("token cache set: %w", err)
	}
	return nil
}

// Invalidate removes the cached row, e.g. after consumption.
func (c *TokenCache) Invalidate(ctx context.Context, token string) error {
	if c == nil {
		return nil
	}
	if err := c.client.Del(ctx, tokenKey(token)).Err(); err != nil {
		return fmt.Errorf("token cache del: %w", err)
	}
	return nil
}
