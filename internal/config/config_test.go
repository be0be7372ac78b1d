package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/vovakirdan/tui-stage/internal/render"
)

var ignoreSource = cmpopts.IgnoreFields(Config{}, "Source")

func TestEmbeddedMatchesDefault(t *testing.T) {
	cfg, err := Parse(DefaultYAML(), FormatYAML)
	if err != nil {
		t.Fatalf("Parse(embedded) error = %v", err)
	}
	if diff := cmp.Diff(Default(), cfg, ignoreSource); diff != "" {
		t.Errorf("embedded default differs from Default() (-want +got):\n%s", diff)
	}
}

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() error = %v", err)
	}
	if got := Default().ClearColor(); got != render.Charcoal {
		t.Errorf("ClearColor() = %v, expected %v", got, render.Charcoal)
	}
	if got := Default().FrameInterval(); got != time.Second/60 {
		t.Errorf("FrameInterval() = %v, expected %v", got, time.Second/60)
	}
}

func TestLoadCustomYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte("window:\n  width: 640\nframe:\n  tick_rate: 30\n  key_release_after: 80ms\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Window.Width != 640 || cfg.Window.Height != 768 {
		t.Errorf("window = %dx%d, expected 640x768", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Frame.TickRate != 30 || cfg.Frame.KeyReleaseAfter != 80*time.Millisecond {
		t.Errorf("frame = %+v, expected 30 fps and 80ms", cfg.Frame)
	}
	if cfg.Source != path {
		t.Errorf("Source = %q, expected %q", cfg.Source, path)
	}
}

func TestLoadCustomTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	data := []byte(`
[window]
title = "Inspect"
fit_terminal = true

[render]
clear_color = "#000000"

[flappy.physics]
gravity = -5.0
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Window.Title != "Inspect" || !cfg.Window.FitTerminal {
		t.Errorf("window = %+v, expected Inspect with fit_terminal", cfg.Window)
	}
	if cfg.ClearColor() != render.Black {
		t.Errorf("ClearColor() = %v, expected black", cfg.ClearColor())
	}
	if cfg.Flappy.Physics.Gravity != -5 || cfg.Flappy.Physics.JumpImpulse != 1.25 {
		t.Errorf("flappy physics = %+v, expected gravity -5 and default jump", cfg.Flappy.Physics)
	}
}

func TestLoadCustomErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Load(missing) error = nil, expected an error")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("frame: [1, 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("Load(malformed) error = nil, expected an error")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("frame:\n  tick_rate: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(invalid); !errors.Is(err, ErrInvalid) {
		t.Errorf("Load(tick_rate 0) error = %v, expected ErrInvalid", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"default", func(*Config) {}, true},
		{"zero window", func(c *Config) { c.Window.Width, c.Window.Height = 0, 0 }, true},
		{"negative tick rate", func(c *Config) { c.Frame.TickRate = -1 }, false},
		{"negative release", func(c *Config) { c.Frame.KeyReleaseAfter = -time.Second }, false},
		{"bad color", func(c *Config) { c.Render.ClearColor = "purple" }, false},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err == nil) != tt.ok {
				t.Errorf("Validate() error = %v, expected ok=%v", err, tt.ok)
			}
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatYAML, FormatTOML} {
		data, err := Encode(Default(), format)
		if err != nil {
			t.Fatalf("Encode(%s) error = %v", format, err)
		}
		cfg, err := Parse(data, format)
		if err != nil {
			t.Fatalf("Parse(%s) error = %v", format, err)
		}
		if diff := cmp.Diff(Default(), cfg, ignoreSource); diff != "" {
			t.Errorf("%s round trip mismatch (-want +got):\n%s", format, diff)
		}
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandPath("~/x/y.db"); got != filepath.Join(home, "x", "y.db") {
		t.Errorf("ExpandPath() = %q, expected under %q", got, home)
	}
	if got := ExpandPath("/abs"); got != "/abs" {
		t.Errorf("ExpandPath(/abs) = %q, expected unchanged", got)
	}
}

func TestDifficultyLevel(t *testing.T) {
	d := NewDifficulty(DifficultyConfig{
		Enabled:      true,
		InitialLevel: 0.2,
		Progression:  ProgressionConfig{Type: "score", MaxAt: 10},
		Scaling:      ScalingConfig{SpeedMultiplier: 1, GapReduction: 0.5},
	})

	tests := []struct {
		score int
		want  float64
	}{
		{0, 0.2},
		{5, 0.6},
		{10, 1.0},
		{100, 1.0},
	}
	for _, tt := range tests {
		if got := d.Level(tt.score, 0); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Level(%d) = %v, expected %v", tt.score, got, tt.want)
		}
	}

	if got := d.Speed(2, 10, 0); got != 4 {
		t.Errorf("Speed() = %v, expected 4", got)
	}
	if got := d.Gap(0.6, 0.3, 10, 0); got != 0.3 {
		t.Errorf("Gap() = %v, expected clamped 0.3", got)
	}
}

func TestDifficultyDisabled(t *testing.T) {
	d := NewDifficulty(DifficultyConfig{Enabled: false, InitialLevel: 0.4})
	if d.IsEnabled() {
		t.Error("IsEnabled() = true, expected false")
	}
	if got := d.Level(1000, 1000); got != 0.4 {
		t.Errorf("Level() = %v, expected initial 0.4", got)
	}
}
