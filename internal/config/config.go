// Package config loads the optional application configuration file. All
// fields have working defaults; a missing file is not an error.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the user-tunable application settings. These are machine
// settings (where data lives, how chatty the log is), distinct from the
// in-app preferences stored in the settings database.
type Config struct {
	// DataDir is the directory holding the database files.
	DataDir string `yaml:"data_dir"`

	// SyncDelayMS is the debounce interval between a mutation and its
	// flush to disk, in milliseconds.
	SyncDelayMS int `yaml:"sync_delay_ms"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		DataDir:     defaultDataDir(),
		SyncDelayMS: 500,
		LogLevel:    "info",
	}
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	if base, err := os.UserConfigDir(); err == nil {
		return filepath.Join(base, "trailhead", "config.yaml")
	}
	return "trailhead-config.yaml"
}

func defaultDataDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "trailhead")
	}
	return "trailhead-data"
}

// Load reads the config file at path, filling unset fields from defaults.
// A missing file returns the defaults; a malformed file is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir()
	}
	if cfg.SyncDelayMS <= 0 {
		cfg.SyncDelayMS = 500
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	case "":
		cfg.LogLevel = "info"
	default:
		return Config{}, fmt.Errorf("parse config %s: unknown log_level %q", path, cfg.LogLevel)
	}
	return cfg, nil
}

// SyncDelay returns the debounce interval as a duration.
func (c Config) SyncDelay() time.Duration {
	return time.Duration(c.SyncDelayMS) * time.Millisecond
}
