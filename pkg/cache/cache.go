// Package cache stores rendered exports keyed by the content they were
// rendered from.
//
// Rendering a snapshot through Graphviz is the only expensive step of an
// export, and its output depends only on the snapshot and the export
// options. A [Keyer] turns both into a key; a [Cache] maps keys to bytes.
//
// # Backends
//
//   - [FileCache]: one JSON entry per key under a directory, for the CLI
//   - [NullCache]: never stores anything, for --no-cache and tests
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long rendered artifacts stay valid.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a byte store with optional expiration.
type Cache interface {
	// Get returns the cached bytes. A miss is reported with ok == false and
	// no error.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Set stores data. A ttl <= 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
