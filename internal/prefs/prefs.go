// Package prefs handles framegrid editor preferences persistence.
// Preferences are stored in ~/.config/framegrid/prefs.toml.
package prefs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/framegrid/internal/config"
)

// Prefs holds user preferences for the grid editor.
type Prefs struct {
	Theme           string  `toml:"theme"`
	Orientation     string  `toml:"orientation"`
	Snap            float64 `toml:"snap"`
	PixelsPerBeat   float64 `toml:"pixels_per_beat"`
	DefaultLanguage string  `toml:"default_language"`
}

const (
	defaultPrefsPath     = "~/.config/framegrid/prefs.toml"
	defaultTheme         = "Dracula"
	defaultOrientation   = "vertical"
	defaultSnap          = 0.25
	defaultPixelsPerBeat = 4
	defaultLanguage      = "bali"
)

// Default returns the preferences used when no file exists.
func Default() Prefs {
	return Prefs{
		Theme:           defaultTheme,
		Orientation:     defaultOrientation,
		Snap:            defaultSnap,
		PixelsPerBeat:   defaultPixelsPerBeat,
		DefaultLanguage: defaultLanguage,
	}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from the given path, falling back to defaults if missing.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Default(), nil
	}

	prefs := Default()

	file, err := os.Open(resolved)
	if err != nil {
		return prefs, nil // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return prefs, nil // Graceful degradation
	}

	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return Default(), nil // Graceful degradation
	}

	return normalize(prefs), nil
}

func normalize(p Prefs) Prefs {
	d := Default()
	if strings.TrimSpace(p.Theme) == "" {
		p.Theme = d.Theme
	}
	switch strings.ToLower(strings.TrimSpace(p.Orientation)) {
	case "horizontal":
		p.Orientation = "horizontal"
	default:
		p.Orientation = d.Orientation
	}
	if p.Snap <= 0 {
		p.Snap = d.Snap
	}
	if p.PixelsPerBeat <= 0 {
		p.PixelsPerBeat = d.PixelsPerBeat
	}
	if p.DefaultLanguage = strings.TrimSpace(p.DefaultLanguage); p.DefaultLanguage == "" {
		p.DefaultLanguage = d.DefaultLanguage
	}
	return p
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	tmp := resolved + ".tmp"
	if err := os.WriteFile(tmp, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmp, resolved); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return config.ExpandPath(defaultPrefsPath)
	}
	return config.ExpandPath(path)
}
