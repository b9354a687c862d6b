package cache

import (
	"context"
	"time"
)

// Service defines the interface for cache operations
type Service interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error

	// Incr atomically increments a counter, setting its expiry when the
	// counter is created. Backs the fixed-window rate limiter.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)

	Close() error
}
