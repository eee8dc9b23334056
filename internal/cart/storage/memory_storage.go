package storage

import (
	"sync"

	"github.com/pkg/errors"
)

type memoryStorage struct {
	mu     sync.Mutex
	values map[string][]byte
}

// NewMemoryStorage is the in-memory Storage fake used by tests.
func NewMemoryStorage() Storage {
	return &memoryStorage{values: make(map[string][]byte)}
}

func (ms *memoryStorage) Load(key string) ([]byte, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	value, ok := ms.values[key]
	if !ok {
		return nil, errors.Wrap(ErrNotFound, key)
	}
	return value, nil
}

func (ms *memoryStorage) Save(key string, value []byte) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.values[key] = value
	return nil
}
