// ABOUTME: Injectable key-value store interface for stepBox record collections.
// ABOUTME: One JSON array per key; backends must be swappable (badger, memory).
package store

import "errors"

// ErrNotFound is returned by Get when a key has never been written.
var ErrNotFound = errors.New("key not found")

// Store is the persistence capability the tracker depends on. Values are
// opaque bytes; the tracker stores whole serialized collections per key and
// always rewrites the full value on mutation.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Keys() ([]string, error)
	Close() error
}
