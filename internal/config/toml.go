// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Keymap KeymapConfig `toml:"keymap"`
	Stats  StatsConfig  `toml:"stats"`
}

// KeymapConfig locates the QMK sources and render options.
type KeymapConfig struct {
	QMKRoot    *string `toml:"qmk-root"`
	Keyboard   *string `toml:"keyboard"`
	Keymap     *string `toml:"keymap"`
	RenderOpts *string `toml:"render-opts"`
}

// StatsConfig maps stats-related settings.
type StatsConfig struct {
	Top              *int  `toml:"top"`
	IncludeCombos    *bool `toml:"include-combos"`
	SkipUnresolvable *bool `toml:"skip-unresolvable"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
