package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/and161185/veriuser/internal/model"
)

// Backends lists the supported storage backends.
func Backends() []string {
	return []string{BackendFile, BackendSQLite, BackendPostgres, BackendRedis, BackendMemory}
}

// Validate performs business-rule validation on the loaded configuration.
// Load calls it automatically; call it again after applying flag overrides.
func (c *Config) Validate() error {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	if !slices.Contains(Backends(), c.Storage.Backend) {
		return fmt.Errorf("storage.backend must be one of %s (got %q)", strings.Join(Backends(), ", "), c.Storage.Backend)
	}
	switch c.Storage.Backend {
	case BackendPostgres:
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("storage.postgres_dsn is required for the postgres backend")
		}
	case BackendRedis:
		if c.Storage.RedisURL == "" {
			return fmt.Errorf("storage.redis_url is required for the redis backend")
		}
	case BackendFile:
		if c.Storage.DataDir == "" {
			return fmt.Errorf("storage.data_dir is required for the file backend")
		}
	case BackendSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("storage.sqlite_path is required for the sqlite backend")
		}
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error (got %q)", c.Log.Level)
	}

	if c.Certificate.Timeout < 0 {
		return fmt.Errorf("certificate.timeout must be >= 0 (got %s)", c.Certificate.Timeout)
	}

	if !model.ValidColor(c.Statuses.FallbackColor) {
		return fmt.Errorf("statuses.fallback_color must be a hex color (got %q)", c.Statuses.FallbackColor)
	}

	return nil
}
