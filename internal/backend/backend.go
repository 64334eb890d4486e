// Package backend selects and opens the kv store named by configuration.
package backend

import (
	"fmt"

	"jizhang/internal/config"
	"jizhang/internal/kv"
	"jizhang/internal/kv/memory"
	"jizhang/internal/kv/sqlite"
	"jizhang/internal/log"
)

// Type names a kv backend.
type Type string

const (
	Memory Type = "memory"
	SQLite Type = "sqlite"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case Memory, SQLite:
		return true
	default:
		return false
	}
}

// CleanupFunc releases the backend's resources.
type CleanupFunc func() error

// Open creates the kv store for the configured backend and returns it with
// its cleanup function.
func Open(cfg *config.Config, logger *log.Logger) (kv.Store, CleanupFunc, error) {
	logger = logger.WithComponent(log.ComponentBackend)

	t := Type(cfg.DataBackend)
	switch t {
	case Memory:
		store := memory.New()
		logger.Info("initialized memory backend", log.FieldBackend, t.String())
		return store, store.Close, nil
	case SQLite:
		store, err := sqlite.Open(cfg.SQLiteDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize sqlite backend: %w", err)
		}
		logger.Info("initialized sqlite backend",
			log.FieldBackend, t.String(), log.FieldPath, cfg.SQLiteDBPath)
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("invalid backend type: %s", cfg.DataBackend)
	}
}
