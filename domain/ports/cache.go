package ports

import (
	"context"
	"errors"
	"time"
)

var ErrCacheMiss = errors.New("cache miss")

// CachePort is a JSON read-through cache. Callers treat every error as a
// miss and fall back to the repository.
type CachePort interface {
	// GetJSON decodes the cached value of key into target, or returns ErrCacheMiss.
	GetJSON(ctx context.Context, key string, target any) error
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// DeletePattern removes every key matching a glob such as "menu:*".
	DeletePattern(ctx context.Context, pattern string) error
	Ping(ctx context.Context) error
}

// Locker hands out short-lived exclusive locks, so that a periodic job runs
// on one instance at a time.
type Locker interface {
	// AcquireLock returns false when someone else holds key.
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key string) error
}
