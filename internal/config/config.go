// Package config provides configuration loading for corpussplit.
//
// Settings come from built-in defaults, optionally overridden by a YAML file
// and then by command-line flags. There is no environment-variable
// configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/danieljhkim/corpussplit/internal/layout"
)

// Config represents the complete corpussplit configuration.
type Config struct {
	Split   SplitConfig `yaml:"split"`
	Sites   SplitConfig `yaml:"sites"`
	Exclude []string    `yaml:"exclude"`

	// Direct executes plans in place instead of through a staging directory
	Direct bool `yaml:"direct"`

	// Verify checks staged trees and copies before committing
	Verify bool `yaml:"verify"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `yaml:"log_level"`
}

// SplitConfig holds the fractions and seed of one kind of split.
type SplitConfig struct {
	Percentages []float64 `yaml:"percentages"`
	Seed        int64     `yaml:"seed"`
}

// DefaultConfig returns a Config with the reference defaults: 70/20/10 and
// seed 3 for both kinds of split.
func DefaultConfig() *Config {
	return &Config{
		Split: SplitConfig{
			Percentages: []float64{0.7, 0.2, 0.1},
			Seed:        3,
		},
		Sites: SplitConfig{
			Percentages: []float64{0.7, 0.2, 0.1},
			Seed:        3,
		},
		LogLevel: "warn",
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if _, err := layout.FlatSpec(c.Split.Percentages); err != nil {
		return fmt.Errorf("split.percentages: %w", err)
	}
	if _, err := layout.SiteSpec(c.Sites.Percentages); err != nil {
		return fmt.Errorf("sites.percentages: %w", err)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file on top of the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config file %s: %w", layout.ErrValidation, path, err)
	}

	config := DefaultConfig()
	config.Merge(&file)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return config, nil
}

// Merge merges another config into this one (other takes precedence for
// non-zero values). A zero seed therefore means "unset"; seed 0 can only be
// chosen with --seed.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if len(other.Split.Percentages) > 0 {
		c.Split.Percentages = other.Split.Percentages
	}
	if other.Split.Seed != 0 {
		c.Split.Seed = other.Split.Seed
	}
	if len(other.Sites.Percentages) > 0 {
		c.Sites.Percentages = other.Sites.Percentages
	}
	if other.Sites.Seed != 0 {
		c.Sites.Seed = other.Sites.Seed
	}
	if len(other.Exclude) > 0 {
		c.Exclude = append(c.Exclude, other.Exclude...)
	}
	if other.Direct {
		c.Direct = true
	}
	if other.Verify {
		c.Verify = true
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
}

// ParseLogLevel maps a level name to a slog.Level.
func ParseLogLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning", "":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("%w: unknown log level %q", layout.ErrValidation, name)
}
