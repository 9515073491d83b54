package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when the key is absent or has expired.
var ErrNotFound = errors.New("cache: key not found")

// Store is the key/value port the page cache runs against (e.g. Redis).
// Every method is a single round-trip; callers get no atomicity across calls.
type Store interface {
	// Ping checks if the store is reachable.
	Ping(ctx context.Context) error

	// Incr atomically increments the integer at key, creating it at 1
	// if absent, and returns the new value.
	Incr(ctx context.Context, key string) (int64, error)

	// Expire sets or resets the TTL of an existing key.
	// It reports false if the key does not exist.
	Expire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Get retrieves a value by key, or ErrNotFound if it is absent.
	Get(ctx context.Context, key string) (string, error)

	// SetEX stores value under key with the given TTL, overwriting any prior value.
	SetEX(ctx context.Context, key string, value string, ttl time.Duration) error

	// Close releases the underlying connections.
	Close() error
}
