package cache

import (
	"context"
	"errors"
	"time"
)

var (
	ErrCacheMiss = errors.New("cache: key not found")
)

// Service is a byte-oriented cache with per-entry expiration.
type Service interface {
	Set(ctx context.Context, key string, value []byte, expiration time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, keys ...string) (bool, error)
	Close() error
}

// GetOrLoad returns the cached value for key, calling load and storing its
// result on a miss. A store failure does not fail the call.
func GetOrLoad(ctx context.Context, c Service, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, bool, error) {
	// backend errors fall through to load like a miss
	if v, err := c.Get(ctx, key); err == nil {
		return v, true, nil
	}

	v, err := load(ctx)
	if err != nil {
		return nil, false, err
	}
	_ = c.Set(ctx, key, v, ttl)
	return v, false, nil
}
