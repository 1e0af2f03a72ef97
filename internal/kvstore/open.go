package kvstore

import (
	"fmt"

	"menu-planner/internal/config"
)

// Open builds the backend selected by cfg.StoreBackend. The returned close
// function is never nil.
func Open(cfg *config.Config) (Backend, func() error, error) {
	noop := func() error { return nil }

	switch cfg.StoreBackend {
	case config.BackendMemory:
		return NewMemoryBackend(), noop, nil
	case config.BackendFile:
		b, err := NewFileBackend(cfg.DataDir)
		if err != nil {
			return nil, noop, err
		}
		return b, noop, nil
	case config.BackendSQLite:
		b, err := NewSQLiteBackend(cfg.DatabasePath)
		if err != nil {
			return nil, noop, err
		}
		return b, b.Close, nil
	case config.BackendRedis:
		b, err := NewRedisBackend(cfg.RedisAddr, cfg.RedisKeyPrefix)
		if err != nil {
			return nil, noop, err
		}
		return b, b.Close, nil
	default:
		return nil, noop, fmt.Errorf("unsupported store backend %q", cfg.StoreBackend)
	}
}
