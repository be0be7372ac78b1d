// Package config provides YAML and TOML configuration loading for the stage
// runtime and its demo apps.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-stage/internal/render"
)

// Config is the complete runtime configuration.
type Config struct {
	Window  WindowConfig  `yaml:"window" toml:"window"`
	Frame   FrameConfig   `yaml:"frame" toml:"frame"`
	Render  RenderConfig  `yaml:"render" toml:"render"`
	Log     LogConfig     `yaml:"log" toml:"log"`
	Storage StorageConfig `yaml:"storage" toml:"storage"`
	Flappy  FlappyConfig  `yaml:"flappy" toml:"flappy"`

	// Source is the file the configuration was read from, or "embedded" /
	// "default".
	Source string `yaml:"-" toml:"-"`
}

// WindowConfig is the initial window configuration handed to the stage.
type WindowConfig struct {
	Title       string `yaml:"title" toml:"title"`
	Width       int    `yaml:"width" toml:"width"`
	Height      int    `yaml:"height" toml:"height"`
	FitTerminal bool   `yaml:"fit_terminal" toml:"fit_terminal"` // size the window from the terminal instead
}

// FrameConfig controls frame pacing.
type FrameConfig struct {
	TickRate int `yaml:"tick_rate" toml:"tick_rate"` // frames per second

	// KeyReleaseAfter is how long a key counts as held after its last press
	// on backends that never report key releases.
	KeyReleaseAfter time.Duration `yaml:"key_release_after" toml:"key_release_after"`
}

// RenderConfig controls presentation.
type RenderConfig struct {
	ClearColor string `yaml:"clear_color" toml:"clear_color"` // "#rrggbb[aa]" or "r, g, b[, a]"
	StatusBar  bool   `yaml:"status_bar" toml:"status_bar"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
	File  string `yaml:"file" toml:"file"` // used while the terminal UI owns the screen
}

// StorageConfig locates the score database.
type StorageConfig struct {
	DBPath string `yaml:"db_path" toml:"db_path"`
}

// FlappyConfig contains all configuration for the flappy demo app.
// Distances are world units (the window is 2 units tall), times are seconds.
type FlappyConfig struct {
	Physics    FlappyPhysics    `yaml:"physics" toml:"physics"`
	Obstacles  FlappyObstacles  `yaml:"obstacles" toml:"obstacles"`
	Player     FlappyPlayer     `yaml:"player" toml:"player"`
	Difficulty DifficultyConfig `yaml:"difficulty" toml:"difficulty"`
}

// FlappyPhysics defines physics parameters for the flappy app.
type FlappyPhysics struct {
	Gravity      float64 `yaml:"gravity" toml:"gravity"`
	JumpImpulse  float64 `yaml:"jump_impulse" toml:"jump_impulse"`
	MaxFallSpeed float64 `yaml:"max_fall_speed" toml:"max_fall_speed"`
	BaseSpeed    float64 `yaml:"base_speed" toml:"base_speed"`
}

// FlappyObstacles defines pipe parameters for the flappy app.
type FlappyObstacles struct {
	PipeWidth   float64 `yaml:"pipe_width" toml:"pipe_width"`
	PipeSpacing float64 `yaml:"pipe_spacing" toml:"pipe_spacing"`
	MinGapSize  float64 `yaml:"min_gap_size" toml:"min_gap_size"`
	MaxGapSize  float64 `yaml:"max_gap_size" toml:"max_gap_size"`
	Margin      float64 `yaml:"margin" toml:"margin"`
}

// FlappyPlayer defines the bird.
type FlappyPlayer struct {
	X    float64 `yaml:"x" toml:"x"`
	Size float64 `yaml:"size" toml:"size"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled" toml:"enabled"`
	InitialLevel float64           `yaml:"initial_level" toml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression" toml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling" toml:"scaling"`
}

// ProgressionConfig defines how difficulty increases.
type ProgressionConfig struct {
	Type  string `yaml:"type" toml:"type"`     // "score", "time", or "none"
	MaxAt int    `yaml:"max_at" toml:"max_at"` // score or frames at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier  float64 `yaml:"speed_multiplier" toml:"speed_multiplier"`   // added to speed at max difficulty
	GapReduction     float64 `yaml:"gap_reduction" toml:"gap_reduction"`         // gap reduction at max difficulty
	SpacingReduction float64 `yaml:"spacing_reduction" toml:"spacing_reduction"` // spacing reduction at max difficulty
}

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("config: invalid")

// Validate checks the values the runtime cannot work without. Window sizes
// are not checked; a zero-sized window is passed through.
func (c Config) Validate() error {
	if c.Frame.TickRate <= 0 {
		return fmt.Errorf("%w: frame.tick_rate must be positive, got %d", ErrInvalid, c.Frame.TickRate)
	}
	if c.Frame.KeyReleaseAfter < 0 {
		return fmt.Errorf("%w: frame.key_release_after must not be negative", ErrInvalid)
	}
	if _, err := render.ParseColor(c.Render.ClearColor); err != nil {
		return fmt.Errorf("%w: render.clear_color: %v", ErrInvalid, err)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level %q", ErrInvalid, c.Log.Level)
	}
	return nil
}

// ClearColor returns the parsed clear color, or the default on error.
func (c Config) ClearColor() render.Color {
	col, err := render.ParseColor(c.Render.ClearColor)
	if err != nil {
		return render.Charcoal
	}
	return col
}

// LogLevel returns the parsed log level, or info on error.
func (c Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// FrameInterval returns the time between frames.
func (c Config) FrameInterval() time.Duration {
	if c.Frame.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.Frame.TickRate)
}
