// Package cache provides byte-oriented caches for repository responses.
//
// The resolver memoizes every lookup for the lifetime of a run on its own;
// a [Cache] adds persistence across runs so that POM documents already
// downloaded are not requested from the repositories again until their TTL
// expires. CLI usage stores entries in a [FileCache] under the user cache
// directory; [NullCache] disables persistence entirely.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys.
// Implementations must treat a missing or expired entry as a miss
// (hit == false, err == nil) rather than an error.
type Cache interface {
	// Get returns the value stored under key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases any resources held by the cache.
	Close() error
}
