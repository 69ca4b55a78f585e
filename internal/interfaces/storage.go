// Package interfaces defines service contracts for fintrack
package interfaces

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by KVStore.Get when the key has no value.
var ErrKeyNotFound = errors.New("key not found")

// KVStore is a string-keyed document store. Every write replaces the whole
// value stored under a key; there is no partial update or merge.
type KVStore interface {
	// Get returns the value for key, or an error wrapping ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists the stored keys starting with prefix, sorted.
	Keys(ctx context.Context, prefix string) ([]string, error)

	// Backend names the implementation ("file", "memory", ...).
	Backend() string

	Close() error
}
