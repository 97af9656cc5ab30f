// Package kv provides the persistence layer: a small key to blob store with
// an atomic read-modify-write primitive. Collections are stored whole under a
// single key each, so Update is the only concurrency-sensitive operation.
package kv

import "context"

// Store is an asynchronous key-value store.
type Store interface {
	// Get returns the value for key, or nil when the key has never been set.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set replaces the value for key.
	Set(ctx context.Context, key string, value []byte) error
	// Update applies fn to the current value (nil when absent) and stores the
	// result. The read and write are atomic with respect to every other
	// writer of the store: two overlapping Updates cannot lose each other's
	// changes. An error from fn aborts the update without writing.
	Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error
}
