// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

const appName = "tuicatch"

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGStateHome returns the XDG state home or a default fallback.
func XDGStateHome() string {
	if v := os.Getenv("XDG_STATE_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "state")
}

// DefaultWordListPath builds the default word list path for a language.
func DefaultWordListPath(lang string) string {
	return filepath.Join(DefaultWordListDir(), lang+".txt")
}

// DefaultWordListDir returns the default directory for word lists.
func DefaultWordListDir() string {
	return filepath.Join(XDGConfigHome(), appName, "wordlists")
}

// DefaultLogPath returns the log file used when logging is enabled without a path.
func DefaultLogPath() string {
	return filepath.Join(XDGStateHome(), appName, appName+".log")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), appName, "config.toml")
}
