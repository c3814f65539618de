// Package config handles hexworld configuration loading and management.
package config

import (
	"time"

	"github.com/talgya/hexworld/internal/world"
)

// Config holds all settings for the hexworld binary.
type Config struct {
	Layout      world.Layout    `yaml:"layout"`
	Generation  world.GenConfig `yaml:"generation"`
	Pathfinding PathfindConfig  `yaml:"pathfinding"`
	Storage     StorageConfig   `yaml:"storage"`
	API         APIConfig       `yaml:"api"`
	Logging     LoggingConfig   `yaml:"logging"`
}

// PathfindConfig bounds A* searches.
type PathfindConfig struct {
	MaxExpansions int  `yaml:"max_expansions"` // <= 0 disables the cap
	Smooth        bool `yaml:"smooth"`         // Pull paths taut by default
}

// StorageConfig holds region snapshot settings.
type StorageConfig struct {
	Path string `yaml:"path"` // SQLite file; empty disables snapshots
}

// APIConfig holds HTTP server settings.
type APIConfig struct {
	Enabled        bool          `yaml:"enabled"`
	Port           int           `yaml:"port"`
	PathRateLimit  int           `yaml:"path_rate_limit"` // Path requests per window per client
	PathRateWindow time.Duration `yaml:"path_rate_window"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	gen := world.DefaultGenConfig()
	gen.Seed = 42
	return &Config{
		Layout:     world.DefaultLayout(),
		Generation: gen,
		Pathfinding: PathfindConfig{
			MaxExpansions: 10000,
			Smooth:        false,
		},
		Storage: StorageConfig{
			Path: "",
		},
		API: APIConfig{
			Enabled:        false,
			Port:           8080,
			PathRateLimit:  600,
			PathRateWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:      "info",
			LogFile:    "",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
	}
}
