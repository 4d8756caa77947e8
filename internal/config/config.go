// Package config loads runtime settings from an optional YAML file and the
// environment.
package config

import "time"

// Storage backends.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

// Config is the root application configuration.
type Config struct {
	Storage     StorageConfig     `yaml:"storage"`
	Log         LogConfig         `yaml:"log"`
	Certificate CertificateConfig `yaml:"certificate"`
	Statuses    StatusConfig      `yaml:"statuses"`
}

// StorageConfig selects and parameterizes the key-value backend.
type StorageConfig struct {
	Backend     string `yaml:"backend"      env:"VERIUSER_STORAGE"      env-default:"file"`
	DataDir     string `yaml:"data_dir"     env:"VERIUSER_DATA_DIR"`
	SQLitePath  string `yaml:"sqlite_path"  env:"VERIUSER_SQLITE_PATH"`
	PostgresDSN string `yaml:"postgres_dsn" env:"VERIUSER_POSTGRES_DSN"`
	RedisURL    string `yaml:"redis_url"    env:"VERIUSER_REDIS_URL"    env-default:"redis://localhost:6379/0"`
	RedisPrefix string `yaml:"redis_prefix" env:"VERIUSER_REDIS_PREFIX" env-default:"veriuser:"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level" env:"VERIUSER_LOG_LEVEL" env-default:"error"`
	Dev   bool   `yaml:"dev"   env:"VERIUSER_LOG_DEV"   env-default:"false"`
}

// CertificateConfig holds document export settings.
type CertificateConfig struct {
	ChromeBin string        `yaml:"chrome_bin" env:"VERIUSER_CHROME_BIN"`
	Timeout   time.Duration `yaml:"timeout"    env:"VERIUSER_EXPORT_TIMEOUT" env-default:"60s"`
}

// StatusConfig holds status display settings.
type StatusConfig struct {
	FallbackColor string `yaml:"fallback_color" env:"VERIUSER_FALLBACK_COLOR" env-default:"#4CAF50"`
}
