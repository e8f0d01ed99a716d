// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Game GameConfig `toml:"game"`
	Log  LogConfig  `toml:"log"`
}

// GameConfig maps session settings. Nil fields are unset.
type GameConfig struct {
	Lang            *string   `toml:"lang"`
	WordList        *string   `toml:"word-list"`
	Tick            *Duration `toml:"tick"`
	Duration        *Duration `toml:"duration"`
	Adaptive        *bool     `toml:"adaptive"`
	ShowCompletion  *bool     `toml:"show-completion"`
	ShowProgression *bool     `toml:"show-progression"`
	MinLength       *int      `toml:"min-length"`
	MaxLength       *int      `toml:"max-length"`
	StartLength     *int      `toml:"start-length"`
	PerfectStreak   *int      `toml:"perfect-streak"`
	Sound           *bool     `toml:"sound"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
	File  *string `toml:"file"`
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
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
