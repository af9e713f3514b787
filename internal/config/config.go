// Package config loads default scan settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds settings that apply when the corresponding flag is not given.
// Pointer fields distinguish "not set" from zero values.
type Config struct {
	// Excludes contains glob patterns to exclude.
	Excludes []string `yaml:"excludes"`
	// MaxDepth is the maximum traversal depth below each subfolder (-1 = unlimited).
	MaxDepth *int `yaml:"max_depth"`
	// Threads is the number of subfolders sized concurrently.
	Threads *int `yaml:"threads"`
	// Dedup enables hard link deduplication.
	Dedup *bool `yaml:"dedup"`
	// Top limits the displayed results (0 = all).
	Top *int `yaml:"top"`
	// Output is the output format.
	Output string `yaml:"output"`
	// Sort is the table ordering.
	Sort string `yaml:"sort"`
}

// DefaultPath returns the default config file location, or "" if the user
// config directory cannot be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}

	return filepath.Join(dir, "sizefolder", "config.yaml")
}

// Load reads the configuration at path.
// A missing file yields an empty configuration; a malformed one is an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config file %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the numeric settings.
func (c *Config) Validate() error {
	if c.MaxDepth != nil && *c.MaxDepth < -1 {
		return fmt.Errorf("max_depth must be -1 or greater, got %d", *c.MaxDepth)
	}

	if c.Threads != nil && *c.Threads < 1 {
		return fmt.Errorf("threads must be at least 1, got %d", *c.Threads)
	}

	if c.Top != nil && *c.Top < 0 {
		return fmt.Errorf("top cannot be negative, got %d", *c.Top)
	}

	return nil
}
