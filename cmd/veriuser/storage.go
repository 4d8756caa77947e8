package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/and161185/veriuser/internal/config"
	"github.com/and161185/veriuser/internal/migrate"
	"github.com/and161185/veriuser/internal/repository"
	"github.com/and161185/veriuser/internal/repository/file"
	"github.com/and161185/veriuser/internal/repository/memory"
	"github.com/and161185/veriuser/internal/repository/postgres"
	"github.com/and161185/veriuser/internal/repository/redis"
	"github.com/and161185/veriuser/internal/repository/sqlite"
)

func noClose() error { return nil }

// openKV opens the configured backend. PostgreSQL is migrated before use.
func openKV(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (repository.KV, func() error, error) {
	switch cfg.Backend {
	case config.BackendFile:
		return file.New(cfg.DataDir), noClose, nil

	case config.BackendMemory:
		return memory.New(), noClose, nil

	case config.BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o700); err != nil {
			return nil, nil, fmt.Errorf("create sqlite dir: %w", err)
		}
		kv, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		return kv, kv.Close, nil

	case config.BackendPostgres:
		if err := migrate.Up(ctx, cfg.PostgresDSN, log); err != nil {
			return nil, nil, err
		}
		db, err := postgres.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		return postgres.NewKV(db), db.Close, nil

	case config.BackendRedis:
		kv, err := redis.New(ctx, cfg.RedisURL, redis.WithPrefix(cfg.RedisPrefix))
		if err != nil {
			return nil, nil, fmt.Errorf("open redis: %w", err)
		}
		return kv, kv.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
