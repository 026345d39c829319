// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package storage provides durable key/value backends for client-side
// state: a SQLite table, a directory of JSON files, and an in-memory map.
// Each key holds one opaque value that is rewritten whole on every save.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/afero"

	"github.com/pdiddy/popcorn/pkg/types"
)

// ErrNotFound is returned by Load for a key that was never saved.
var ErrNotFound = errors.New("key not found")

// Backend is a key/value store.
type Backend interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Close() error
}

// Default locations per driver.
const (
	DefaultSQLitePath = "data/popcorn.db"
	DefaultFileDir    = "data"
)

// Open returns the backend selected by cfg.Driver. An empty driver means
// sqlite.
func Open(cfg types.StorageConfig) (Backend, error) {
	switch cfg.Driver {
	case types.StorageSQLite, "":
		path := cfg.Path
		if path == "" {
			path = DefaultSQLitePath
		}
		return NewSQLite(path)
	case types.StorageFile:
		dir := cfg.Path
		if dir == "" {
			dir = DefaultFileDir
		}
		return NewFile(afero.NewOsFs(), dir)
	case types.StorageMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q: use sqlite, file, or memory", cfg.Driver)
	}
}

func validKey(key string) error {
	if key == "" {
		return fmt.Errorf("empty storage key")
	}
	return nil
}
