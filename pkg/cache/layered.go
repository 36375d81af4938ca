package cache

import (
	"context"
	"time"
)

// LayeredCache implements a two-level cache (L1: memory, L2: Redis). The
// memory layer keeps reads byte-identical within one process; Redis keeps
// warm instances roughly consistent across restarts.
type LayeredCache struct {
	memCache   *MemoryCache
	redisCache *RedisCache
}

// NewLayeredCache creates a layered cache with memory and Redis.
func NewLayeredCache(redisCache *RedisCache, opts ...LayeredOption) *LayeredCache {
	cfg := &LayeredConfig{
		MemoryMaxSize: 1000,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return &LayeredCache{
		memCache:   NewMemoryCache(WithMemoryMaxSize(cfg.MemoryMaxSize)),
		redisCache: redisCache,
	}
}

func (lc *LayeredCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	// Write-through: Redis first, then memory.
	if err := lc.redisCache.Set(ctx, key, value, expiration); err != nil {
		return err
	}
	_ = lc.memCache.Set(ctx, key, value, expiration)
	return nil
}

func (lc *LayeredCache) Get(ctx context.Context, key string, dest interface{}) error {
	if err := lc.memCache.Get(ctx, key, dest); err == nil {
		return nil
	}

	if err := lc.redisCache.Get(ctx, key, dest); err != nil {
		return err
	}

	_ = lc.memCache.Set(ctx, key, dest, 0)
	return nil
}

func (lc *LayeredCache) Delete(ctx context.Context, keys ...string) error {
	_ = lc.memCache.Delete(ctx, keys...)
	return lc.redisCache.Delete(ctx, keys...)
}

func (lc *LayeredCache) Exists(ctx context.Context, keys ...string) (bool, error) {
	return lc.redisCache.Exists(ctx, keys...)
}

// Close closes both cache layers.
func (lc *LayeredCache) Close() error {
	_ = lc.memCache.Close()
	return lc.redisCache.Close()
}
