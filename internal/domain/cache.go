package domain

import (
	"context"
	"time"
)

// CacheError represents an error originating from the cache.
type CacheError string

func (e CacheError) Error() string {
	return string(e)
}

// ErrCacheMiss is returned when a key is not found in the cache.
const ErrCacheMiss = CacheError("cache: key not found")

// Cache defines the interface (port) for caching operations. Implementations
// are the adapters (Redis, or the flat-file store used for image descriptors).
type Cache interface {
	// Get retrieves an item from the cache.
	// It returns ErrCacheMiss if the key is not found.
	Get(ctx context.Context, key string) (string, error)

	// Set adds an item to the cache, overwriting an existing item if one
	// exists. If expiration is 0 the item is cached indefinitely (where the
	// adapter supports it).
	Set(ctx context.Context, key string, value string, expiration time.Duration) error

	// Delete removes an item from the cache. It does not return an error if
	// the key is not found.
	Delete(ctx context.Context, key string) error

	// Ping checks the health of the cache backend.
	Ping(ctx context.Context) error
}
