package config

import "math"

// Difficulty calculates dynamic app parameters based on score or frames.
type Difficulty struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficulty creates a difficulty calculator.
func NewDifficulty(cfg DifficultyConfig) *Difficulty {
	return &Difficulty{
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0, 1),
	}
}

// IsEnabled returns whether difficulty progression is active.
func (d *Difficulty) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the current difficulty level (0.0 to 1.0).
func (d *Difficulty) Level(score int, frames uint64) float64 {
	if !d.IsEnabled() {
		return d.initialLevel
	}

	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1 // Prevent division by zero
	}

	var progress float64
	switch d.cfg.Progression.Type {
	case "score":
		progress = float64(score) / maxAt
	case "time":
		progress = float64(frames) / maxAt
	default:
		return d.initialLevel
	}

	progress = clampF(progress, 0, 1)
	// Interpolate from initial level to 1.0
	return d.initialLevel + progress*(1-d.initialLevel)
}

// Speed scales base from base to base * (1 + speed_multiplier).
func (d *Difficulty) Speed(base float64, score int, frames uint64) float64 {
	return base * (1 + d.Level(score, frames)*d.cfg.Scaling.SpeedMultiplier)
}

// Gap shrinks base by up to gap_reduction, never below minGap.
func (d *Difficulty) Gap(base, minGap float64, score int, frames uint64) float64 {
	return math.Max(minGap, base-d.Level(score, frames)*d.cfg.Scaling.GapReduction)
}

// Spacing shrinks base by up to spacing_reduction, never below minSpacing.
func (d *Difficulty) Spacing(base, minSpacing float64, score int, frames uint64) float64 {
	return math.Max(minSpacing, base-d.Level(score, frames)*d.cfg.Scaling.SpacingReduction)
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
