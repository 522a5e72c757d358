package templates

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"resume-builder/internal/shared/telemetry"
)

const (
	cacheKeyPrefix = "templates:v1:"
	cacheListKey   = cacheKeyPrefix + "all"
	// DefaultCacheTTL bounds how long an edited catalog row stays stale.
	DefaultCacheTTL = 10 * time.Minute
)

// kv is the subset of the redis client the cache uses.
type kv interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// CachedCatalog is a read-through Redis cache in front of another catalog.
// Redis failures fall back to the underlying catalog.
type CachedCatalog struct {
	Next   Catalog
	Client kv
	TTL    time.Duration
}

func NewCachedCatalog(next Catalog, client *redis.Client, ttl time.Duration) *CachedCatalog {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedCatalog{Next: next, Client: client, TTL: ttl}
}

func (c *CachedCatalog) List(ctx context.Context) ([]Descriptor, error) {
	var out []Descriptor
	if c.load(ctx, cacheListKey, &out) {
		return out, nil
	}
	out, err := c.Next.List(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, cacheListKey, out)
	return out, nil
}

func (c *CachedCatalog) Get(ctx context.Context, id string) (Descriptor, error) {
	key := cacheKeyPrefix + id
	var d Descriptor
	if c.load(ctx, key, &d) {
		return d, nil
	}
	d, err := c.Next.Get(ctx, id)
	if err != nil {
		return Descriptor{}, err
	}
	c.store(ctx, key, d)
	return d, nil
}

func (c *CachedCatalog) load(ctx context.Context, key string, dst any) bool {
	raw, err := c.Client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			telemetry.Warn("templates.cache_get_failed", map[string]any{"key": key, "error": err.Error()})
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		telemetry.Warn("templates.cache_decode_failed", map[string]any{"key": key, "error": err.Error()})
		return false
	}
	return true
}

func (c *CachedCatalog) store(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.Client.Set(ctx, key, raw, c.TTL).Err(); err != nil {
		telemetry.Warn("templates.cache_set_failed", map[string]any{"key": key, "error": err.Error()})
	}
}

var _ Catalog = (*CachedCatalog)(nil)
