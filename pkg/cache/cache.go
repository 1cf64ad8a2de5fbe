// Package cache stores derived data (resolved senses, built graphs, scenes)
// keyed by content hashes.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache for several server instances
//   - [MemoryCache]: process-local map, used by tests and the HTTP server
//   - [NullCache]: caching disabled
//
// # Keys
//
// A [Keyer] derives keys from the inputs that determine a value. Keys for
// the same inputs are stable across processes, so a FileCache populated by
// the CLI is reused by later runs.
package cache

import (
	"context"
	"time"
)

// Default lifetimes per entry kind.
const (
	// TTLSense applies to resolved lexicon senses. Lexicon data changes
	// rarely, so senses live longest.
	TTLSense = 7 * 24 * time.Hour
	// TTLGraph applies to built concept graphs.
	TTLGraph = 24 * time.Hour
	// TTLScene applies to device-space scenes.
	TTLScene = time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key. hit is false on a miss or an expired
	// entry; err is reserved for backend failures.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}
