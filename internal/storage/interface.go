package storage

import "errors"

// ErrNotFound is returned by Get when no blob is stored under the key.
var ErrNotFound = errors.New("key not found")

// Provider is a persistent key-value store of JSON blobs.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Blobs
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Keys() ([]string, error)

	// Utils
	GetConfigPath() string
}
