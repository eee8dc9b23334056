package storage

import "github.com/pkg/errors"

// ErrNotFound is returned by Load when nothing was ever saved under a key.
var ErrNotFound = errors.New("key not found")

// Storage is the persistence boundary for client-side kiosk state. The cart
// store only ever talks to this interface, so the backend is swappable
// (file, redis, or an in-memory fake in tests).
type Storage interface {
	// Load returns the raw value last saved under key, or ErrNotFound.
	Load(key string) ([]byte, error)

	// Save persists the value under key, replacing any previous value.
	Save(key string, value []byte) error
}
