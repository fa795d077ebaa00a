package cache

import (
	"context"
	"time"
)

// LayeredCache implements two-level cache (L1: Memory, L2: shared backend, usually Redis).
type LayeredCache struct {
	memCache *MemoryCache
	l2       Service
	l1TTL    time.Duration
}

// NewLayeredCache creates a layered cache in front of l2.
func NewLayeredCache(l2 Service, opts ...LayeredOption) *LayeredCache {
	cfg := &LayeredConfig{
		MemoryMaxSize: 1000,
		MemoryTTL:     time.Minute,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return &LayeredCache{
		memCache: NewMemoryCache(WithMemoryMaxSize(cfg.MemoryMaxSize)),
		l2:       l2,
		l1TTL:    cfg.MemoryTTL,
	}
}

func (lc *LayeredCache) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	// Write-through: shared layer first, then memory
	if err := lc.l2.Set(ctx, key, value, expiration); err != nil {
		return err
	}
	_ = lc.memCache.Set(ctx, key, value, lc.memTTL(expiration))
	return nil
}

func (lc *LayeredCache) Get(ctx context.Context, key string) ([]byte, error) {
	// L1: Try memory first
	if v, err := lc.memCache.Get(ctx, key); err == nil {
		return v, nil
	}

	// L2
	v, err := lc.l2.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	// Store in memory for next time
	_ = lc.memCache.Set(ctx, key, v, lc.l1TTL)
	return v, nil
}

func (lc *LayeredCache) Delete(ctx context.Context, keys ...string) error {
	_ = lc.memCache.Delete(ctx, keys...)
	return lc.l2.Delete(ctx, keys...)
}

func (lc *LayeredCache) Exists(ctx context.Context, keys ...string) (bool, error) {
	if ok, _ := lc.memCache.Exists(ctx, keys...); ok {
		return true, nil
	}
	return lc.l2.Exists(ctx, keys...)
}

// Close closes both cache layers.
func (lc *LayeredCache) Close() error {
	_ = lc.memCache.Close()
	return lc.l2.Close()
}

// memTTL keeps L1 entries from outliving their L2 copy.
func (lc *LayeredCache) memTTL(expiration time.Duration) time.Duration {
	if expiration > 0 && expiration < lc.l1TTL {
		return expiration
	}
	return lc.l1TTL
}
