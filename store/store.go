// Package store provides the key-value persistence layer for deployment and
// pending-settlement records, with an in-memory backend for tests and a
// pebble backend for real runs.
package store

import "errors"

var (
	ErrNotFound = errors.New("key not found")
	ErrClosed   = errors.New("store is closed")
)

// KVStore is the minimal key-value surface the journal needs.
type KVStore interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Delete(key []byte) error
	// List returns the values of every key with the given prefix.
	List(prefix []byte) ([][]byte, error)
	Close() error
}
