// Package config loads undoctl settings.
//
// Settings are read from TOML files with koanf. Files are applied in order
// of increasing priority, later files overriding earlier ones:
//
//  1. $XDG_CONFIG_HOME/undoctl/config.toml
//  2. the path given with --config
//
// A missing default file is skipped. A missing --config file is an error.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all settings.
type Config struct {
	History HistoryConfig `koanf:"history"`
	Log     LogConfig     `koanf:"log"`
	Session SessionConfig `koanf:"session"`
}

// HistoryConfig configures the undo history.
type HistoryConfig struct {
	MaxEntries int `koanf:"max_entries"` // 0 means unlimited
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // auto, text, json
}

// SessionConfig configures the interactive session.
type SessionConfig struct {
	Prompt string `koanf:"prompt"`
	Color  bool   `koanf:"color"`
	Watch  bool   `koanf:"watch"` // reload the document on external changes
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "warn",
			Format: "auto",
		},
		Session: SessionConfig{
			Prompt: "undoctl> ",
			Color:  true,
		},
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "undoctl", "config.toml")
}

// Load reads the default config file followed by extra, then validates the
// result. A missing default file is skipped; every extra path must exist.
func Load(extra ...string) (*Config, error) {
	k := koanf.New(".")
	if err := loadFile(k, DefaultPath(), true); err != nil {
		return nil, err
	}
	for _, path := range extra {
		if path == "" {
			continue
		}
		if err := loadFile(k, path, false); err != nil {
			return nil, err
		}
	}
	return unmarshal(k)
}

// LoadFiles reads the given TOML files on top of the defaults. Empty paths
// are ignored; all others must exist.
func LoadFiles(paths ...string) (*Config, error) {
	k := koanf.New(".")
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := loadFile(k, path, false); err != nil {
			return nil, err
		}
	}
	return unmarshal(k)
}

func loadFile(k *koanf.Koanf, path string, optional bool) error {
	if _, err := os.Stat(path); err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return &LoadError{Path: path, Err: err}
	}
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return &LoadError{Path: path, Err: err}
	}
	return nil
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks setting values.
func (c *Config) Validate() error {
	if c.History.MaxEntries < 0 {
		return &ValidationError{Path: "history.max_entries", Value: c.History.MaxEntries, Message: "must not be negative"}
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "log.level", Value: c.Log.Level, Message: "must be debug, info, warn, or error"}
	}
	switch c.Log.Format {
	case "auto", "text", "json":
	default:
		return &ValidationError{Path: "log.format", Value: c.Log.Format, Message: "must be auto, text, or json"}
	}
	return nil
}
