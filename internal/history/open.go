package history

import (
	"fmt"

	"shellkit/internal/config"
	"shellkit/internal/logging"
)

// OpenStore returns the backing store selected by cfg, or nil for the
// memory backend.
func OpenStore(cfg config.HistoryConfig) (Store, error) {
	switch cfg.Backend {
	case config.BackendMemory, "":
		return nil, nil
	case config.BackendFile:
		return NewFileStore(cfg.Path), nil
	case config.BackendSQLite:
		s, err := NewSQLiteStore(cfg.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown history backend: %s", cfg.Backend)
	}
}

// Open builds the session history described by cfg. A store that cannot be
// opened leaves the history in memory; it never fails startup.
func Open(cfg config.HistoryConfig) *Buffer {
	store, err := OpenStore(cfg)
	if err != nil {
		logging.HistoryWarn("history backend %s unavailable, continuing in memory: %v", cfg.Backend, err)
		store = nil
	}
	if store != nil {
		logging.History("history backend %s at %s", cfg.Backend, cfg.Path)
	}
	return New(store, WithLimit(cfg.Limit))
}
