package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.Game.Tick != nil || cfg.Game.Adaptive != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigDecodesGameTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[game]
lang = "is"
tick = "150ms"
duration = "2m"
adaptive = false
min-length = 4
perfect-streak = 3

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Game.Lang == nil || *cfg.Game.Lang != "is" {
		t.Fatalf("unexpected lang: %v", cfg.Game.Lang)
	}
	if cfg.Game.Tick == nil || cfg.Game.Tick.Duration != 150*time.Millisecond {
		t.Fatalf("unexpected tick: %v", cfg.Game.Tick)
	}
	if cfg.Game.Duration == nil || cfg.Game.Duration.Duration != 2*time.Minute {
		t.Fatalf("unexpected duration: %v", cfg.Game.Duration)
	}
	if cfg.Game.Adaptive == nil || *cfg.Game.Adaptive {
		t.Fatalf("expected adaptive=false")
	}
	if cfg.Game.MinLength == nil || *cfg.Game.MinLength != 4 {
		t.Fatalf("unexpected min length")
	}
	if cfg.Game.MaxLength != nil {
		t.Fatalf("unset key should stay nil")
	}
	if cfg.Log.Level == nil || *cfg.Log.Level != "debug" {
		t.Fatalf("unexpected log level")
	}
}

func TestLoadConfigRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"bad-duration.toml": "[game]\ntick = \"soon\"\n",
		"unknown-key.toml":  "[game]\nspeed = 3\n",
	}
	for name, body := range cases {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		if _, err := LoadConfig(path); err == nil {
			t.Fatalf("expected error for %s", name)
		}
	}
}

func TestXDGPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	if got := DefaultConfigPath(); got != "/tmp/cfg/tuicatch/config.toml" {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultWordListPath("is"); got != "/tmp/cfg/tuicatch/wordlists/is.txt" {
		t.Fatalf("unexpected word list path %q", got)
	}
	if got := DefaultLogPath(); got != "/tmp/state/tuicatch/tuicatch.log" {
		t.Fatalf("unexpected log path %q", got)
	}
}
