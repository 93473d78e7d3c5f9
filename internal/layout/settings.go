package layout

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Settings locates the QMK sources for one keyboard/keymap pair.
type Settings struct {
	QMKRoot  string
	Keyboard string
	Keymap   string
}

// KeymapC is the path to the keymap source file.
func (s Settings) KeymapC() string {
	return filepath.Join(s.keymapDir(), "keymap.c")
}

// CombosDef is the path to the combo definition file.
func (s Settings) CombosDef() string {
	return filepath.Join(s.keymapDir(), "combos.def")
}

// RenderOptsJSON is the default render options path next to the keymap.
func (s Settings) RenderOptsJSON() string {
	return filepath.Join(s.keymapDir(), "render.json")
}

// KeyboardJSON is the path to the keyboard geometry spec.
func (s Settings) KeyboardJSON() string {
	return filepath.Join(s.keyboardDir(), "keyboard.json")
}

// InfoJSON is the fallback path for the keyboard geometry spec.
func (s Settings) InfoJSON() string {
	return filepath.Join(s.keyboardDir(), "info.json")
}

func (s Settings) keyboardDir() string {
	return filepath.Join(s.QMKRoot, "keyboards", s.Keyboard)
}

func (s Settings) baseKeyboardDir() string {
	part := s.Keyboard
	if idx := strings.Index(part, "/"); idx >= 0 {
		part = part[:idx]
	}
	return filepath.Join(s.QMKRoot, "keyboards", part)
}

func (s Settings) keymapDir() string {
	return filepath.Join(s.baseKeyboardDir(), "keymaps", s.Keymap)
}

// Input bundles the parsed layout model with its render options.
type Input struct {
	Keymap *Keymap
	Opts   *RenderOpts
}

// LoadInput reads and parses all layout sources from disk. The
// keyboard spec is taken from keyboard.json, or info.json when the
// former does not exist.
func LoadInput(p *Parser, s Settings, renderOptsPath string) (*Input, error) {
	optsSrc, err := os.ReadFile(renderOptsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read render options: %w", err)
	}
	id := strings.TrimSuffix(filepath.Base(renderOptsPath), filepath.Ext(renderOptsPath))
	opts, err := p.ParseRenderOpts(id, string(optsSrc))
	if err != nil {
		return nil, err
	}

	keymapC, err := os.ReadFile(s.KeymapC())
	if err != nil {
		return nil, fmt.Errorf("failed to read keymap source: %w", err)
	}

	spec, err := readKeyboardSpec(s)
	if err != nil {
		return nil, err
	}

	combosDef, err := os.ReadFile(s.CombosDef())
	if err != nil {
		return nil, fmt.Errorf("failed to read combo definitions: %w", err)
	}

	keymap, err := p.ParseKeymap(string(keymapC), spec, string(combosDef), opts)
	if err != nil {
		return nil, err
	}
	return &Input{Keymap: keymap, Opts: opts}, nil
}

func readKeyboardSpec(s Settings) (string, error) {
	for _, path := range []string{s.KeyboardJSON(), s.InfoJSON()} {
		data, err := os.ReadFile(path)
		if err == nil {
			return string(data), nil
		}
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to read keyboard spec: %w", err)
		}
	}
	return "", fmt.Errorf("no keyboard.json or info.json under %s", s.keyboardDir())
}
