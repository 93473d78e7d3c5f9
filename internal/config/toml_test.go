package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[keymap]
qmk-root = "/src/qmk_firmware"
keyboard = "cybershard"
keymap = "default"

[stats]
top = 15
include-combos = false
skip-unresolvable = true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Keymap.QMKRoot == nil || *cfg.Keymap.QMKRoot != "/src/qmk_firmware" {
		t.Fatalf("unexpected qmk-root: %v", cfg.Keymap.QMKRoot)
	}
	if cfg.Keymap.Keyboard == nil || *cfg.Keymap.Keyboard != "cybershard" {
		t.Fatalf("unexpected keyboard: %v", cfg.Keymap.Keyboard)
	}
	if cfg.Keymap.RenderOpts != nil {
		t.Fatalf("render-opts not set in file but decoded as %v", *cfg.Keymap.RenderOpts)
	}
	if cfg.Stats.Top == nil || *cfg.Stats.Top != 15 {
		t.Fatalf("unexpected top: %v", cfg.Stats.Top)
	}
	if cfg.Stats.IncludeCombos == nil || *cfg.Stats.IncludeCombos {
		t.Fatalf("unexpected include-combos: %v", cfg.Stats.IncludeCombos)
	}
	if cfg.Stats.SkipUnresolvable == nil || !*cfg.Stats.SkipUnresolvable {
		t.Fatalf("unexpected skip-unresolvable: %v", cfg.Stats.SkipUnresolvable)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("missing file must not be an error: %v", err)
	}
	if cfg.Keymap.QMKRoot != nil {
		t.Fatalf("expected an empty config")
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected an error for an empty path")
	}
}
