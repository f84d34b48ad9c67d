// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New(ctx) builds a Config populated with defaults.
// - Load(ctx) layers a YAML file and environment variables over the defaults.
// - Validation failures wrap ErrInvalidConfig, loading failures ErrLoadConfig.
package config

import (
	"context"
	"fmt"
	"strings"
)

// Storage drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// StorageDriver selects the event store: memory or sqlite.
	StorageDriver string `koanf:"storage_driver"`

	// SQLitePath is the database file used by the sqlite driver.
	SQLitePath string `koanf:"sqlite_path"`

	// DedupeSize bounds the import deduplication cache. Zero means unbounded.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxImportBatch caps the number of events accepted per import request.
	MaxImportBatch int `koanf:"max_import_batch"`

	// MaxSessions bounds live analysis sessions; the oldest is evicted.
	MaxSessions int `koanf:"max_sessions"`

	// OurTeams overrides team detection for every session when non-empty.
	OurTeams []string `koanf:"our_teams"`

	// CategoryAliases maps a canonical category to the labels grouped under it
	// in summaries.
	CategoryAliases map[string][]string `koanf:"category_aliases"`
}

// New creates a Config holding the defaults. Context is accepted first to
// satisfy the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:       "info",
		LogFormat:      "text",
		Addr:           ":9080",
		StorageDriver:  DriverMemory,
		SQLitePath:     "conexus.db",
		DedupeSize:     500_000,
		MaxImportBatch: 10_000,
		MaxSessions:    256,
	}
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	switch c.StorageDriver {
	case DriverMemory:
	case DriverSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("%w: sqlite_path is required for the sqlite driver", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: %w %q", ErrInvalidConfig, ErrUnknownStorageDriver, c.StorageDriver)
	}
	if c.DedupeSize < 0 {
		return fmt.Errorf("%w: dedupe_size must not be negative", ErrInvalidConfig)
	}
	if c.MaxImportBatch <= 0 {
		return fmt.Errorf("%w: max_import_batch must be positive", ErrInvalidConfig)
	}
	if c.MaxSessions <= 0 {
		return fmt.Errorf("%w: max_sessions must be positive", ErrInvalidConfig)
	}
	return nil
}
