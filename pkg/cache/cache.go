// Package cache stores solve results keyed by graph content and options.
//
// Three backends implement [Cache]:
//   - [FileCache]: msgpack-encoded entries under a directory, used by the CLI
//   - [RedisCache]: shared cache for the HTTP API
//   - [NullCache]: disables caching
//
// Keys come from a [Keyer]. [SolveKey] hashes the canonical graph encoding
// from [GraphHash] together with the strategy and solver options, so a cached
// clique is only reused for the exact same problem.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with expiration.
type Cache interface {
	// Get returns the value for key. The bool is false on a miss; misses are
	// not errors.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}

// NullCache never stores anything.
type NullCache struct{}

// NewNullCache returns a cache where every lookup misses.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }

var _ Cache = NullCache{}
