package config

import (
	"fmt"

	"github.com/sdejongh/foldermirror/pkg/models"
)

// Config represents the application configuration
type Config struct {
	Pairs       []models.FolderPair `yaml:"pairs"`
	Sync        SyncConfig          `yaml:"sync"`
	Performance PerformanceConfig   `yaml:"performance"`
	Output      OutputConfig        `yaml:"output"`
	Logging     LoggingConfig       `yaml:"logging"`
}

// SyncConfig holds sync-related settings
type SyncConfig struct {
	TwoWay        bool     `yaml:"two_way"`
	Validate      bool     `yaml:"validate"`
	MaxPathLength int      `yaml:"max_path_length"`
	BlockSize     int      `yaml:"block_size"`
	Hash          string   `yaml:"hash"`    // "md5" or "sha256"
	Exclude       []string `yaml:"exclude"` // gitignore-style patterns
}

// PerformanceConfig holds performance-related settings
type PerformanceConfig struct {
	BufferSize     int   `yaml:"buffer_size"`
	BandwidthLimit int64 `yaml:"bandwidth_limit"` // bytes per second, 0 = unlimited
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format"`   // "human" or "json"
	Progress bool   `yaml:"progress"` // Show progress bars
	Quiet    bool   `yaml:"quiet"`    // Suppress non-error output
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Format     string `yaml:"format"` // "json" or "text"
	Level      string `yaml:"level"`  // "debug", "info", "warn", "error"
	File       string `yaml:"file"`   // Log file path (empty = stderr)
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Pairs: []models.FolderPair{},
		Sync: SyncConfig{
			MaxPathLength: 260,
			BlockSize:     4096,
			Hash:          "md5",
		},
		Performance: PerformanceConfig{
			BufferSize: 65536,
		},
		Output: OutputConfig{
			Format:   "human",
			Progress: true,
		},
		Logging: LoggingConfig{
			Format:     "json",
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Validate checks if the configuration is valid. Folder pairs are not
// checked here: an unusable pair fails on its own when it is synced.
func (c *Config) Validate() error {
	if c.Sync.MaxPathLength < 1 {
		return &models.ConfigurationError{
			Field:   "sync.max_path_length",
			Message: "must be at least 1",
		}
	}

	if c.Sync.BlockSize < 512 {
		return &models.ConfigurationError{
			Field:   "sync.block_size",
			Message: "must be at least 512 bytes",
		}
	}

	validHashes := map[string]bool{"md5": true, "sha256": true}
	if !validHashes[c.Sync.Hash] {
		return &models.ConfigurationError{
			Field:   "sync.hash",
			Message: "must be 'md5' or 'sha256'",
		}
	}

	if c.Performance.BufferSize < 1024 {
		return &models.ConfigurationError{
			Field:   "performance.buffer_size",
			Message: "must be at least 1024 bytes",
		}
	}

	if c.Performance.BandwidthLimit < 0 {
		return &models.ConfigurationError{
			Field:   "performance.bandwidth_limit",
			Message: "must not be negative",
		}
	}

	validFormats := map[string]bool{"human": true, "json": true}
	if !validFormats[c.Output.Format] {
		return &models.ConfigurationError{
			Field:   "output.format",
			Message: "must be 'human' or 'json'",
		}
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ConfigurationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ConfigurationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	return nil
}

// AddPair appends a folder pair. Empty paths and exact duplicates are rejected.
func (c *Config) AddPair(pair models.FolderPair) error {
	if pair.Source == "" || pair.Target == "" {
		return &models.ConfigurationError{
			Field:   "pairs",
			Message: "source and target must both be set",
		}
	}
	for _, p := range c.Pairs {
		if p == pair {
			return &models.ConfigurationError{
				Field:   "pairs",
				Message: fmt.Sprintf("pair %s already configured", pair),
			}
		}
	}
	c.Pairs = append(c.Pairs, pair)
	return nil
}

// RemovePair removes the pair at index (zero-based) and returns it
func (c *Config) RemovePair(index int) (models.FolderPair, error) {
	if index < 0 || index >= len(c.Pairs) {
		return models.FolderPair{}, &models.ConfigurationError{
			Field:   "pairs",
			Message: fmt.Sprintf("no pair at index %d (have %d)", index, len(c.Pairs)),
		}
	}
	removed := c.Pairs[index]
	c.Pairs = append(c.Pairs[:index], c.Pairs[index+1:]...)
	return removed, nil
}
