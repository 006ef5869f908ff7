// Package kv persists named opaque records.
package kv

import (
	"context"
	"fmt"

	"taskquest/internal/platform/config"
)

// Record names.
const (
	KeyTasks       = "tasks"
	KeyLeaderboard = "leaderboard"
)

// Store reads and writes whole records. Get returns apperrors.ErrNotFound for
// a missing key; Delete of a missing key is not an error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open picks the store implementation configured for cfg.
func Open(cfg config.Config) (Store, error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		return NewSQLiteStore(cfg.DBPath())
	case config.DriverFile:
		return NewFileStore(cfg.RecordsDir())
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}
