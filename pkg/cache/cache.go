// Package cache provides the response cache used by the page fetcher.
//
// A [Cache] stores opaque byte slices under string keys with an optional
// time-to-live. Three backends are available:
//
//   - [FileCache]: one file per entry below a directory (the CLI default)
//   - [RedisCache]: a shared Redis instance, keys under a common prefix
//   - [NullCache]: stores nothing, used with --no-cache
//
// The cache is constructed once by the caller and handed to the fetcher.
// [Cache.Clear] drops every entry and is meant to be called at most once,
// before any page is requested.
package cache

import (
	"context"
	"time"
)

// Cache is a key/value store for HTTP response bodies.
type Cache interface {
	// Get returns the stored value and true on a hit. Expired or unreadable
	// entries are reported as a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a single entry. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every entry owned by this cache and returns how many
	// were removed.
	Clear(ctx context.Context) (int, error)

	// Close releases resources held by the backend.
	Close() error
}
