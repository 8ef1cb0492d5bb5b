// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Driver  DriverConfig  `toml:"driver"`
	Play    PlayConfig    `toml:"play"`
	Preview PreviewConfig `toml:"preview"`
}

// DriverConfig maps the sysfs driver location settings.
type DriverConfig struct {
	Root         *string `toml:"root"`
	IndexNode    *string `toml:"index-node"`
	DurationNode *string `toml:"duration-node"`
	ActivateNode *string `toml:"activate-node"`
	PwleNode     *string `toml:"pwle-node"`
}

// PlayConfig maps playback defaults.
type PlayConfig struct {
	Strength *string `toml:"strength"`
	Wait     *bool   `toml:"wait"`
}

// PreviewConfig maps envelope preview settings.
type PreviewConfig struct {
	Height *int `toml:"height"`
	Width  *int `toml:"width"`
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
