// Package storage selects the medium that backs the message store.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zhouzirui/hello-fullstack/backend/internal/config"
	"github.com/zhouzirui/hello-fullstack/backend/internal/model/message"
	"github.com/zhouzirui/hello-fullstack/backend/internal/storage/badgerstore"
	"github.com/zhouzirui/hello-fullstack/backend/internal/storage/redisstore"
	"github.com/zhouzirui/hello-fullstack/backend/internal/storage/sqlitestore"
)

// Open returns the store configured by cfg. The caller owns Close.
func Open(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (message.Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("backend", cfg.Backend)

	var (
		store message.Store
		err   error
	)
	switch cfg.Backend {
	case config.BackendMemory:
		store = message.NewMemoryStore()
	case config.BackendSQLite:
		store, err = sqlitestore.Open(cfg.Path, logger)
	case config.BackendBadger:
		store, err = badgerstore.Open(cfg.Path, logger)
	case config.BackendRedis:
		store, err = redisstore.Open(ctx, cfg.RedisAddr, cfg.RedisKey, logger)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "message store opened", "path", cfg.Path)
	return store, nil
}
