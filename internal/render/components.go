package render

import (
	"github.com/vovakirdan/tui-stage/internal/gfx"
	"github.com/vovakirdan/tui-stage/internal/input"
)

// Tint overrides the default opaque white draw color of an entity.
type Tint struct {
	Color Color
}

// Texture attaches a texture to an entity's mesh.
type Texture struct {
	Handle gfx.Texture
}

// Transform places an entity's mesh in world space.
// A zero Scale is treated as 1.
type Transform struct {
	Position input.Vec2
	Scale    input.Vec2
}

// Matrix returns the model matrix.
func (t Transform) Matrix() Mat4 {
	sx, sy := t.Scale.X, t.Scale.Y
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	return Translate(t.Position.X, t.Position.Y, 0).Mul(Scale(sx, sy, 1))
}

// Camera2D describes the visible region: a box centered on Center reaching
// Extent units up and down, and Extent*aspect left and right.
type Camera2D struct {
	Center input.Vec2
	Extent float32
}

// DefaultCamera is used when no entity has a Camera2D.
var DefaultCamera = Camera2D{Extent: 1}

// Projection returns the orthographic projection for a viewport aspect ratio.
// A non-positive Extent is treated as 1.
func (c Camera2D) Projection(aspect float32) Mat4 {
	e := c.Extent
	if e <= 0 {
		e = 1
	}
	if aspect <= 0 {
		aspect = 1
	}
	return Ortho(
		c.Center.X-e*aspect, c.Center.X+e*aspect,
		c.Center.Y-e, c.Center.Y+e,
		-1, 1,
	)
}

// ScreenToWorld converts a window position in logical pixels to world
// coordinates under this camera.
func (c Camera2D) ScreenToWorld(p input.Vec2, win input.Window) input.Vec2 {
	if win.Width == 0 || win.Height == 0 {
		return c.Center
	}
	e := c.Extent
	if e <= 0 {
		e = 1
	}
	nx := p.X/win.Width*2 - 1
	ny := 1 - p.Y/win.Height*2
	return input.Vec2{
		X: c.Center.X + nx*e*win.Aspect(),
		Y: c.Center.Y + ny*e,
	}
}
