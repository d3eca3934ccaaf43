// internal/templates/cache.go
package templates

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// cacheTTL bounds how stale a cached template may get if Redis and the
// backing store fall out of sync through external writes.
const cacheTTL = time.Hour

// CachedStore wraps a Store with a Redis read-through cache. Lobby starts
// hit Get once per start, so the cache mostly saves repeated reads of
// popular templates during a party.
type CachedStore struct {
	inner Store
	rdb   *redis.Client
}

// ConnectRedis initializes a Redis client for addr and verifies it with a
// ping.
func ConnectRedis(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return rdb, nil
}

// NewCachedStore wraps inner with the given Redis client.
func NewCachedStore(inner Store, rdb *redis.Client) *CachedStore {
	return &CachedStore{inner: inner, rdb: rdb}
}

func cacheKey(name string) string {
	return "wordweaver:template:" + name
}

// Create writes through to the backing store and invalidates the cache
// entry, so a forced replacement is visible immediately.
func (c *CachedStore) Create(ctx context.Context, tpl *Template, force bool) error {
	if err := c.inner.Create(ctx, tpl, force); err != nil {
		return err
	}
	c.rdb.Del(ctx, cacheKey(tpl.Name))
	return nil
}

// Get serves from Redis when possible, falling back to the backing store.
// Cache failures degrade to a plain store read rather than erroring.
func (c *CachedStore) Get(ctx context.Context, name string) (*Template, error) {
	if data, err := c.rdb.Get(ctx, cacheKey(name)).Bytes(); err == nil {
		var tpl Template
		if err := json.Unmarshal(data, &tpl); err == nil {
			return &tpl, nil
		}
	}

	tpl, err := c.inner.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(tpl); err == nil {
		c.rdb.Set(ctx, cacheKey(name), data, cacheTTL)
	}
	return tpl, nil
}

// List always reads the backing store; the listing is admin-only and rare.
func (c *CachedStore) List(ctx context.Context) ([]Template, error) {
	return c.inner.List(ctx)
}
