package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// GetJSON decodes the blob stored under key into v. It reports false,
// leaving v untouched, when the key is absent.
func GetJSON(p Provider, key string, v any) (bool, error) {
	data, err := p.Get(key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(p Provider, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", key, err)
	}
	return p.Set(key, data)
}

// IsPostgresConfig reports whether the config value is a PostgreSQL URL.
func IsPostgresConfig(config string) bool {
	return strings.HasPrefix(config, "postgres://") || strings.HasPrefix(config, "postgresql://")
}

// IsSQLiteConfig reports whether the config value points at a SQLite file.
func IsSQLiteConfig(config string) bool {
	return strings.HasSuffix(config, ".db") || strings.HasSuffix(config, ".sqlite")
}
