// Package kv defines the port the storage facade persists through: an
// opaque key-value store holding whole JSON blobs. Each Set is a single
// whole-value overwrite, so a failed write never leaves a key half-written.
package kv

import "context"

// Store is implemented by the persistence backends.
type Store interface {
	// Get returns the value for key, with ok=false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Set overwrites the value for key.
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}
