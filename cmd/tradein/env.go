package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/mobilkita/tradein/internal/config"
	"github.com/mobilkita/tradein/internal/inventory"
	"github.com/mobilkita/tradein/internal/logger"
	"github.com/mobilkita/tradein/internal/nats"
	"github.com/mobilkita/tradein/internal/requests"
	"github.com/mobilkita/tradein/internal/taxonomy"
)

// env is the runtime shared by the commands.
type env struct {
	cfg      *config.Config
	embedded *nats.Embedded
}

// loadConfig loads the layered config and applies its logging settings.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return nil, fmt.Errorf("failed to configure logger: %w", err)
	}
	return cfg, nil
}

// openEnv loads config and starts embedded NATS under the data directory.
func openEnv() (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	embedded, err := nats.Open(filepath.Join(cfg.DataDir, "nats"))
	if err != nil {
		return nil, fmt.Errorf("failed to start NATS: %w", err)
	}
	return &env{cfg: cfg, embedded: embedded}, nil
}

func (e *env) Close() {
	if err := e.embedded.Close(); err != nil {
		logger.Warn("Error shutting down NATS: %v", err)
	}
}

// requestStore returns the request store backed by the request stream.
func (e *env) requestStore(ctx context.Context) (*requests.Store, error) {
	stream, err := nats.SetupRequestStream(ctx, e.embedded.JS)
	if err != nil {
		return nil, fmt.Errorf("failed to setup request stream: %w", err)
	}
	return requests.NewStore(e.embedded.JS, stream), nil
}

// inventoryStore returns the KV-backed inventory.
func (e *env) inventoryStore(ctx context.Context) (*inventory.KVStore, error) {
	kv, err := nats.SetupInventoryBucket(ctx, e.embedded.JS)
	if err != nil {
		return nil, fmt.Errorf("failed to setup inventory bucket: %w", err)
	}
	return inventory.NewKVStore(kv), nil
}

// inventorySource picks the configured inventory source. The KV store is
// returned separately so callers can watch it.
func (e *env) inventorySource(ctx context.Context) (inventory.Source, *inventory.KVStore, error) {
	if e.cfg.InventorySource == config.InventoryFromNATS {
		kv, err := e.inventoryStore(ctx)
		if err != nil {
			return nil, nil, err
		}
		return kv, kv, nil
	}
	return inventory.FileSource{Path: e.cfg.InventoryFile}, nil, nil
}

// loadTree reads the configured taxonomy file, or the built-in tree.
func loadTree(cfg *config.Config) (taxonomy.Tree, error) {
	if cfg.TaxonomyFile == "" {
		return taxonomy.Default(), nil
	}
	return taxonomy.Load(cfg.TaxonomyFile)
}
