// Package config handles focusflow configuration parsing and validation.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file searched for by FindConfigFile.
const FileName = "focusflow.yaml"

// Config represents the focusflow.yaml configuration file.
type Config struct {
	Version  string         `yaml:"version"`
	Database DatabaseConfig `yaml:"database"`
	Profile  ProfileConfig  `yaml:"profile"`
	Log      LogConfig      `yaml:"log"`
	Heatmap  HeatmapConfig  `yaml:"heatmap"`
}

// DatabaseConfig locates the SQLite file.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ProfileConfig selects the user commands act on. Empty means the stored
// current user.
type ProfileConfig struct {
	UserID string `yaml:"user_id"`
}

// LogConfig controls diagnostic output.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// HeatmapConfig controls the heatmap command's rendering.
type HeatmapConfig struct {
	Days int `yaml:"days"` // trailing days to draw, at most 365
}

// DefaultDBPath returns the database location under the user config dir,
// or a file in the working directory when that is unavailable.
func DefaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "focusflow.db"
	}
	return filepath.Join(dir, "focusflow", "focusflow.db")
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Database: DatabaseConfig{
			Path: DefaultDBPath(),
		},
		Log: LogConfig{
			Level: "info",
		},
		Heatmap: HeatmapConfig{
			Days: 119,
		},
	}
}

// Load reads and parses the focusflow.yaml config file.
func Load(path string) (*Config, error) {
	if path == "" {
		path = FileName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified path.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	if _, err := c.SlogLevel(); err != nil {
		return err
	}

	if c.Heatmap.Days < 1 || c.Heatmap.Days > 365 {
		return fmt.Errorf("heatmap.days must be between 1 and 365, got %d", c.Heatmap.Days)
	}

	return nil
}

// SlogLevel maps log.level onto a slog level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Log.Level)
	}
	return level, nil
}

// FindConfigFile searches for focusflow.yaml in current and parent directories.
func FindConfigFile() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for dir := cwd; ; dir = filepath.Dir(dir) {
		configPath := filepath.Join(dir, FileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		if dir == filepath.Dir(dir) {
			break
		}
	}

	return "", fmt.Errorf("%s not found in %s or parent directories", FileName, cwd)
}
