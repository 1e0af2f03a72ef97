package app

import (
	"fmt"

	"menu-planner/internal/config"
	"menu-planner/internal/kvstore"
	"menu-planner/internal/logger"
	"menu-planner/internal/menu"
)

// Open builds the App described by cfg: the seed catalog, the configured
// store backend and the fail-silent KV store on top of it. The returned
// close function releases the backend and is never nil.
func Open(cfg *config.Config, log *logger.Logger, opts ...Option) (*App, func() error, error) {
	seed := menu.DefaultCatalog()
	if cfg.SeedFile != "" {
		s, err := menu.LoadSeedFile(cfg.SeedFile)
		if err != nil {
			return nil, func() error { return nil }, err
		}
		seed = s
	}

	backend, closeFn, err := kvstore.Open(cfg)
	if err != nil {
		return nil, closeFn, fmt.Errorf("failed to open %s store: %w", cfg.StoreBackend, err)
	}
	log.Info("Store opened", "backend", cfg.StoreBackend)

	kv := kvstore.New(backend, log, cfg.StoreTimeout)
	return NewApp(kv, seed, log, opts...), closeFn, nil
}
