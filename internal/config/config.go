// Package config defines service configuration structures and loading hooks.
package config

import (
	"fmt"
	"strings"

	"github.com/okian/woundcare/internal/domain/scoring"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendMySQL  = "mysql"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// MaxBodyBytes caps request bodies. Photos arrive base64 encoded.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// HistoryLimit is how many analyses each user keeps.
	HistoryLimit int `koanf:"history_limit"`

	// DedupeSize sets the size of the history write deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// ShardCount configures the number of shards in the in-memory store.
	ShardCount int `koanf:"shard_count"`

	// StoreBackend selects memory or mysql.
	StoreBackend string `koanf:"store_backend"`

	// MySQLDSN is required when StoreBackend is mysql.
	MySQLDSN string `koanf:"mysql_dsn"`

	// AnalyzePreset and TimelinePreset name the scoring presets.
	AnalyzePreset  string `koanf:"analyze_preset"`
	TimelinePreset string `koanf:"timeline_preset"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		LogFormat:      "text",
		Addr:           ":3000",
		MaxBodyBytes:   10 << 20,
		HistoryLimit:   50,
		DedupeSize:     10_000,
		ShardCount:     16,
		StoreBackend:   BackendMemory,
		AnalyzePreset:  scoring.PresetServer,
		TimelinePreset: scoring.PresetClient,
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.MaxBodyBytes <= 0:
		return fmt.Errorf("%w: max_body_bytes must be positive", ErrInvalidConfig)
	case c.HistoryLimit <= 0:
		return fmt.Errorf("%w: history_limit must be positive", ErrInvalidConfig)
	case c.ShardCount <= 0:
		return fmt.Errorf("%w: shard_count must be positive", ErrInvalidConfig)
	}

	switch c.StoreBackend {
	case BackendMemory:
	case BackendMySQL:
		if strings.TrimSpace(c.MySQLDSN) == "" {
			return fmt.Errorf("%w: mysql_dsn is required for the mysql backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store_backend %q", ErrInvalidConfig, c.StoreBackend)
	}

	if _, err := scoring.PresetByName(c.AnalyzePreset); err != nil {
		return fmt.Errorf("%w: analyze_preset: %w", ErrInvalidConfig, err)
	}
	if _, err := scoring.PresetByName(c.TimelinePreset); err != nil {
		return fmt.Errorf("%w: timeline_preset: %w", ErrInvalidConfig, err)
	}
	return nil
}
