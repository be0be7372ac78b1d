package engine

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-stage/internal/ecs"
	"github.com/vovakirdan/tui-stage/internal/input"
)

// RenderSystem draws every mesh entity through the shared quad pipeline.
type RenderSystem struct{}

func (RenderSystem) Phase() Phase { return PhaseDraw }

func (RenderSystem) Run(w *ecs.World, r *Resources) {
	if r.Pipeline == nil || r.Graphics == nil || r.Input == nil {
		return
	}
	r.Pipeline.Draw(r.Graphics, w, r.Input.Window)
}

// DebugInputSystem logs the published snapshot at debug level every update,
// including every button and key whose state changed since the last one.
type DebugInputSystem struct {
	Logger *log.Logger

	last input.Frame
}

// NewDebugInputSystem returns a system logging to logger.
func NewDebugInputSystem(logger *log.Logger) *DebugInputSystem {
	return &DebugInputSystem{Logger: logger}
}

func (d *DebugInputSystem) Phase() Phase { return PhaseUpdate }

func (d *DebugInputSystem) Run(_ *ecs.World, r *Resources) {
	if r.Input == nil || d.Logger == nil {
		return
	}
	f := r.Input
	d.Logger.Debug("input",
		"frame", f.Time.Frame,
		"since_start", f.Time.SinceStart,
		"window", [2]float32{f.Window.Width, f.Window.Height},
		"mouse", [2]float32{f.Mouse.Pos.X, f.Mouse.Pos.Y},
	)
	for _, t := range input.Transitions(&d.last, f) {
		d.Logger.Debug("transition", "frame", f.Time.Frame, "name", t.Name, "from", t.From, "to", t.To)
	}
	d.last = *f
}
