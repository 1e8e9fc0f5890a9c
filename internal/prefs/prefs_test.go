package prefs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p != Default() {
		t.Fatalf("Load = %#v, want %#v", p, Default())
	}
}

func TestLoad_ReadsExistingFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	prefsDir := filepath.Join(home, ".config", "framegrid")
	if err := os.MkdirAll(prefsDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	prefsFile := filepath.Join(prefsDir, "prefs.toml")
	body := "theme = \"Slate\"\norientation = \"Horizontal\"\nsnap = 0.5\npixels_per_beat = 8\ndefault_language = \"lua\"\n"
	if err := os.WriteFile(prefsFile, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want := Prefs{Theme: "Slate", Orientation: "horizontal", Snap: 0.5, PixelsPerBeat: 8, DefaultLanguage: "lua"}
	if p != want {
		t.Fatalf("Load = %#v, want %#v", p, want)
	}
}

func TestSave_CreatesFileAndDirs(t *testing.T) {
	tmp := t.TempDir()
	prefsFile := filepath.Join(tmp, "subdir", "prefs.toml")

	p := Default()
	p.Theme = "Slate"
	p.Orientation = "horizontal"
	if err := Save(prefsFile, p); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := Load(prefsFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded != p {
		t.Fatalf("Load = %#v, want %#v", loaded, p)
	}
	if _, err := os.Stat(prefsFile + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestLoad_InvalidValuesFallBackPerField(t *testing.T) {
	tests := []struct {
		name string
		body string
		want func(Prefs) bool
	}{
		{"empty theme", "theme = \"\"\n", func(p Prefs) bool { return p.Theme == defaultTheme }},
		{"unknown orientation", "orientation = \"diagonal\"\n", func(p Prefs) bool { return p.Orientation == defaultOrientation }},
		{"zero snap", "snap = 0\n", func(p Prefs) bool { return p.Snap == defaultSnap }},
		{"negative pixels", "pixels_per_beat = -2\n", func(p Prefs) bool { return p.PixelsPerBeat == defaultPixelsPerBeat }},
		{"blank language", "default_language = \"  \"\n", func(p Prefs) bool { return p.DefaultLanguage == defaultLanguage }},
		{"invalid toml", "not valid toml {{{\n", func(p Prefs) bool { return p == Default() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefsFile := filepath.Join(t.TempDir(), "prefs.toml")
			if err := os.WriteFile(prefsFile, []byte(tt.body), 0o644); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			p, err := Load(prefsFile)
			if err != nil {
				t.Fatalf("Load returned error: %v", err)
			}
			if !tt.want(p) {
				t.Fatalf("Load = %#v", p)
			}
		})
	}
}

func TestWatch_ReloadsOnSave(t *testing.T) {
	prefsFile := filepath.Join(t.TempDir(), "prefs.toml")
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	got := make(chan Prefs, 4)
	if err := Watch(ctx, prefsFile, func(p Prefs) { got <- p }); err != nil {
		t.Fatalf("Watch returned error: %v", err)
	}

	p := Default()
	p.Theme = "Nord"
	if err := Save(prefsFile, p); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	select {
	case loaded := <-got:
		if loaded.Theme != "Nord" {
			t.Fatalf("Theme = %q, want Nord", loaded.Theme)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("Watch did not report the saved prefs")
	}
}

func TestWatch_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	prefsFile := filepath.Join(dir, "prefs.toml")
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	got := make(chan Prefs, 4)
	if err := Watch(ctx, prefsFile, func(p Prefs) { got <- p }); err != nil {
		t.Fatalf("Watch returned error: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x = 1\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	select {
	case p := <-got:
		t.Fatalf("unexpected reload: %#v", p)
	case <-time.After(300 * time.Millisecond):
	}
}
