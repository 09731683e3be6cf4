package storage

import (
	"errors"
	"fmt"
	"sort"
)

// ErrWriteFailed is returned by MemoryStore when write failures are injected.
var ErrWriteFailed = errors.New("simulated write failure")

// MemoryStore is a Provider that never touches disk. FailWrites makes every
// Set and Delete fail, which lets callers exercise the persistence-failure path.
type MemoryStore struct {
	blobs      map[string][]byte
	FailWrites bool
	Writes     int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (s *MemoryStore) Init() error  { return nil }
func (s *MemoryStore) Load() error  { return nil }
func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) Get(key string) ([]byte, error) {
	blob, ok := s.blobs[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return append([]byte(nil), blob...), nil
}

func (s *MemoryStore) Set(key string, value []byte) error {
	if s.FailWrites {
		return fmt.Errorf("%w: %s", ErrWriteFailed, key)
	}
	s.blobs[key] = append([]byte(nil), value...)
	s.Writes++
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	if s.FailWrites {
		return fmt.Errorf("%w: %s", ErrWriteFailed, key)
	}
	if _, ok := s.blobs[key]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	delete(s.blobs, key)
	s.Writes++
	return nil
}

func (s *MemoryStore) Keys() ([]string, error) {
	keys := make([]string, 0, len(s.blobs))
	for key := range s.blobs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *MemoryStore) GetConfigPath() string {
	return "memory"
}
