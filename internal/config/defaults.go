package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/stage.yaml
var defaultYAML []byte

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}

// Default returns the hard-coded configuration.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "FlappyBird",
			Width:  1024,
			Height: 768,
		},
		Frame: FrameConfig{
			TickRate:        60,
			KeyReleaseAfter: 150 * time.Millisecond,
		},
		Render: RenderConfig{
			ClearColor: "0.13, 0.137, 0.137, 1",
			StatusBar:  true,
		},
		Log: LogConfig{
			Level: "info",
			File:  "~/.stage/stage.log",
		},
		Storage: StorageConfig{
			DBPath: "~/.stage/stage.db",
		},
		Flappy: DefaultFlappyConfig(),
		Source: "default",
	}
}

// DefaultFlappyConfig returns the default flappy app configuration.
func DefaultFlappyConfig() FlappyConfig {
	return FlappyConfig{
		Physics: FlappyPhysics{
			Gravity:      -3.2,
			JumpImpulse:  1.25,
			MaxFallSpeed: 2.5,
			BaseSpeed:    0.6,
		},
		Obstacles: FlappyObstacles{
			PipeWidth:   0.25,
			PipeSpacing: 1.1,
			MinGapSize:  0.6,
			MaxGapSize:  0.8,
			Margin:      0.15,
		},
		Player: FlappyPlayer{
			X:    -0.6,
			Size: 0.1,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 50,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier:  1.0,
				GapReduction:     0.2,
				SpacingReduction: 0.3,
			},
		},
	}
}
