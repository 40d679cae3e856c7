// Package config loads the player configuration from TOML files.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	DatabasePath     string `koanf:"database_path"`     // empty means the XDG data default
	AutosaveSeconds  int    `koanf:"autosave_seconds"`  // debounce delay for playlist autosave
	PlaceholderImage string `koanf:"placeholder_image"` // cover shown for tracks without artwork
	LyricsEnabled    *bool  `koanf:"lyrics_enabled"`    // local .lrc lookup (default: true)
}

// Load reads config files in priority order (last wins) and applies
// defaults for unset values.
func Load() (*Config, error) {
	k := koanf.New(".")

	for _, path := range configPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if cfg.DatabasePath != "" {
		cfg.DatabasePath = expandPath(cfg.DatabasePath)
	}
	if cfg.PlaceholderImage != "" {
		cfg.PlaceholderImage = expandPath(cfg.PlaceholderImage)
	}

	return cfg, nil
}

func configPaths() []string {
	paths := []string{}

	// 1. ~/.config/songplayer/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "songplayer", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// AutosaveDelay returns the autosave debounce delay with the default
// applied.
func (c *Config) AutosaveDelay() time.Duration {
	if c.AutosaveSeconds <= 0 {
		return 2 * time.Second
	}
	return time.Duration(c.AutosaveSeconds) * time.Second
}

// HasLyrics reports whether local lyrics lookup is enabled.
func (c *Config) HasLyrics() bool {
	return c.LyricsEnabled == nil || *c.LyricsEnabled
}
