// Package inspect implements an app that visualizes the published input
// snapshot: a cursor that follows the mouse, one tile per mouse button and
// one tile per key, each colored by its button state.
package inspect

import (
	"github.com/vovakirdan/tui-stage/internal/ecs"
	"github.com/vovakirdan/tui-stage/internal/engine"
	"github.com/vovakirdan/tui-stage/internal/gfx"
	"github.com/vovakirdan/tui-stage/internal/input"
	"github.com/vovakirdan/tui-stage/internal/registry"
	"github.com/vovakirdan/tui-stage/internal/render"
)

// ID is the registry identifier.
const ID = "inspect"

// Layout in world units.
const (
	columns    = 14
	keyTile    = 0.11
	keyPitch   = 0.13
	keysTop    = 0.1
	buttonTile = 0.22
	buttonsY   = 0.6
	cursorSize = 0.06
)

func init() {
	registry.Register(ID, func() registry.App { return New() })
}

// StateColor returns the tile color for a button state.
func StateColor(s input.ButtonState) render.Color {
	switch s {
	case input.ButtonJustDown:
		return render.Green
	case input.ButtonDown:
		return render.SkyBlue
	case input.ButtonJustUp:
		return render.Orange
	default:
		return render.Gray
	}
}

var mouseButtons = []input.MouseButton{input.MouseLeft, input.MouseMiddle, input.MouseRight}

// App is the input inspector.
type App struct {
	cursor  ecs.EntityID
	buttons map[input.MouseButton]ecs.EntityID
	keys    map[input.Key]ecs.EntityID
}

// New creates an inspector.
func New() *App {
	return &App{
		buttons: make(map[input.MouseButton]ecs.EntityID, len(mouseButtons)),
		keys:    make(map[input.Key]ecs.EntityID, input.KeyCount),
	}
}

func (a *App) ID() string    { return ID }
func (a *App) Title() string { return "Input Inspector" }

// Build creates the tiles and the cursor and registers the systems. The
// cursor is created last so it is drawn on top. Run with --debug-input to
// also log every transition.
func (a *App) Build(g gfx.Context, s *engine.Scheduler, _ registry.Env) error {
	w := s.World()
	ecs.Add(w, w.Create(), render.Camera2D{Extent: 1})

	for i, b := range mouseButtons {
		x := float32(i-1) * (buttonTile + 0.08)
		id, err := tile(g, w, buttonTile, x, buttonsY)
		if err != nil {
			return err
		}
		a.buttons[b] = id
	}

	for i, k := range input.AllKeys() {
		col, row := i%columns, i/columns
		x := (float32(col) - float32(columns-1)/2) * keyPitch
		y := keysTop - float32(row)*keyPitch
		id, err := tile(g, w, keyTile, x, y)
		if err != nil {
			return err
		}
		a.keys[k] = id
	}

	id, err := tile(g, w, cursorSize, 0, 0)
	if err != nil {
		return err
	}
	tex, err := g.NewTexture(crosshair, gfx.TextureParams{Width: 3, Height: 3, Filter: gfx.FilterNearest})
	if err != nil {
		return err
	}
	ecs.Add(w, id, render.Texture{Handle: tex})
	ecs.Add(w, id, render.Tint{Color: render.White})
	a.cursor = id

	s.Register(engine.Func(engine.PhaseUpdate, a.update))
	s.Register(engine.RenderSystem{})
	return nil
}

// crosshair is a 3x3 RGBA plus sign.
var crosshair = func() []byte {
	pix := make([]byte, 3*3*4)
	for _, i := range []int{1, 3, 4, 5, 7} {
		copy(pix[i*4:], []byte{0xff, 0xff, 0xff, 0xff})
	}
	return pix
}()

func tile(g gfx.Context, w *ecs.World, size, x, y float32) (ecs.EntityID, error) {
	mesh, err := render.NewQuad(g, size, size)
	if err != nil {
		return 0, err
	}
	id := w.Create()
	ecs.Add(w, id, mesh)
	ecs.Add(w, id, render.Tint{Color: StateColor(input.ButtonUp)})
	ecs.Add(w, id, render.Transform{Position: input.Vec2{X: x, Y: y}})
	return id, nil
}

func (a *App) update(w *ecs.World, r *engine.Resources) {
	in := r.Input
	if in == nil {
		return
	}
	tints := ecs.Components[render.Tint](w)

	for b, id := range a.buttons {
		if t, ok := tints.Get(id); ok {
			t.Color = StateColor(in.Mouse.Button(b))
		}
	}
	for k, id := range a.keys {
		if t, ok := tints.Get(id); ok {
			t.Color = StateColor(in.Key(k))
		}
	}

	if t, ok := ecs.Components[render.Transform](w).Get(a.cursor); ok {
		t.Position = render.Camera(w).ScreenToWorld(in.Mouse.Pos, in.Window)
	}
}
