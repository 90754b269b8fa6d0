// Package cache provides the optional record cache used by the catalog
// fetcher. Stores hold opaque encoded payloads keyed by string; the default
// backend is process memory, with a Redis backend for deployments that want
// records to survive a session.
package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrCacheMiss indicates the requested key was not found or has expired.
	ErrCacheMiss = errors.New("cache miss")
)

// Store is the record cache backend.
type Store interface {
	// Get retrieves the payload for key. Returns ErrCacheMiss if absent
	// or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a payload under key for ttl. A ttl <= 0 is a no-op.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
