package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != "1.0" {
		t.Errorf("expected version 1.0, got %s", cfg.Version)
	}

	if !strings.HasSuffix(cfg.Database.Path, "focusflow.db") {
		t.Errorf("expected default database file focusflow.db, got %s", cfg.Database.Path)
	}

	if cfg.Log.Level != "info" {
		t.Errorf("expected log level info, got %s", cfg.Log.Level)
	}

	if cfg.Profile.UserID != "" {
		t.Errorf("expected no pinned user, got %s", cfg.Profile.UserID)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected default config to validate, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "empty database path",
			modify:  func(c *Config) { c.Database.Path = "" },
			wantErr: true,
		},
		{
			name:    "invalid log level",
			modify:  func(c *Config) { c.Log.Level = "loud" },
			wantErr: true,
		},
		{
			name:    "valid debug level",
			modify:  func(c *Config) { c.Log.Level = "debug" },
			wantErr: false,
		},
		{
			name:    "zero heatmap days",
			modify:  func(c *Config) { c.Heatmap.Days = 0 },
			wantErr: true,
		},
		{
			name:    "heatmap beyond a year",
			modify:  func(c *Config) { c.Heatmap.Days = 366 },
			wantErr: true,
		},
		{
			name:    "full year heatmap",
			modify:  func(c *Config) { c.Heatmap.Days = 365 },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSlogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Log.Level = "warn"

	level, err := cfg.SlogLevel()
	if err != nil {
		t.Fatalf("SlogLevel() error = %v", err)
	}
	if level != slog.LevelWarn {
		t.Errorf("expected %v, got %v", slog.LevelWarn, level)
	}
}

func TestLoadAndSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)

	cfg := DefaultConfig()
	cfg.Database.Path = filepath.Join(dir, "test.db")
	cfg.Profile.UserID = "user-1"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if loaded.Database.Path != cfg.Database.Path {
		t.Errorf("expected database path %s, got %s", cfg.Database.Path, loaded.Database.Path)
	}
	if loaded.Profile.UserID != "user-1" {
		t.Errorf("expected user id user-1, got %s", loaded.Profile.UserID)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("profile:\n  user_id: abc\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Profile.UserID != "abc" {
		t.Errorf("expected user id abc, got %s", cfg.Profile.UserID)
	}
	if cfg.Heatmap.Days != 119 {
		t.Errorf("expected default heatmap days, got %d", cfg.Heatmap.Days)
	}
}

func TestLoadNonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/focusflow.yaml")
	if err != nil {
		t.Fatalf("Load() should not error for missing file, got %v", err)
	}

	if cfg.Log.Level != "info" {
		t.Errorf("expected default log level info, got %s", cfg.Log.Level)
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("database: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected parse error for malformed yaml")
	}
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	subdir := filepath.Join(dir, "subdir")
	if err := os.MkdirAll(subdir, 0755); err != nil {
		t.Fatal(err)
	}

	configPath := filepath.Join(dir, FileName)
	if err := os.WriteFile(configPath, []byte("version: '1.0'"), 0644); err != nil {
		t.Fatal(err)
	}

	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	if err := os.Chdir(subdir); err != nil {
		t.Fatal(err)
	}

	found, err := FindConfigFile()
	if err != nil {
		t.Fatalf("FindConfigFile() error = %v", err)
	}

	if found != configPath {
		t.Errorf("expected %s, got %s", configPath, found)
	}
}
