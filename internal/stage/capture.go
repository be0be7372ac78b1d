package stage

import "github.com/vovakirdan/tui-stage/internal/input"

// EventHandler is the set of raw input callbacks a backend delivers.
// Coordinates are logical pixels. Implementations must not block.
type EventHandler interface {
	MouseMotionEvent(x, y float32)
	MouseWheelEvent(dx, dy float32)
	MouseButtonDownEvent(b input.MouseButton, x, y float32)
	MouseButtonUpEvent(b input.MouseButton, x, y float32)
	KeyDownEvent(k input.Key, mods input.Mods, repeat bool)
	KeyUpEvent(k input.Key, mods input.Mods)
	CharEvent(r rune, mods input.Mods, repeat bool)
	ResizeEvent(width, height float32)
	WindowMinimizedEvent()
	WindowRestoredEvent()
	TouchEvent(phase input.TouchPhase, id uint64, x, y float32)
	RawMouseMotion(dx, dy float32)
}

var _ EventHandler = (*Stage)(nil)

// PrimaryTouch is the only touch point that is tracked. Backends are
// expected to report their first finger as id 0; other ids are dropped.
const PrimaryTouch uint64 = 0

func (s *Stage) MouseMotionEvent(x, y float32) {
	s.active.Mouse.Pos = input.Vec2{X: x, Y: y}
}

func (s *Stage) MouseWheelEvent(dx, dy float32) {}

func (s *Stage) MouseButtonDownEvent(b input.MouseButton, x, y float32) {
	s.active.Mouse.Pos = input.Vec2{X: x, Y: y}
	s.active.Mouse.SetButton(b, input.ButtonJustDown)
}

func (s *Stage) MouseButtonUpEvent(b input.MouseButton, x, y float32) {
	s.active.Mouse.Pos = input.Vec2{X: x, Y: y}
	s.active.Mouse.SetButton(b, input.ButtonJustUp)
}

// KeyDownEvent marks k as just pressed. Repeats are treated like any other
// press. KeyUnknown is ignored.
func (s *Stage) KeyDownEvent(k input.Key, _ input.Mods, _ bool) {
	s.active.Keyboard.Set(k, input.ButtonJustDown)
}

// KeyUpEvent marks k as just released. KeyUnknown is ignored.
func (s *Stage) KeyUpEvent(k input.Key, _ input.Mods) {
	s.active.Keyboard.Set(k, input.ButtonJustUp)
}

func (s *Stage) CharEvent(r rune, mods input.Mods, repeat bool) {}

// ResizeEvent sets the window size of the active snapshot. Systems see it
// after the next publish.
func (s *Stage) ResizeEvent(width, height float32) {
	s.active.Window = input.Window{Width: width, Height: height}
}

func (s *Stage) WindowMinimizedEvent() {}

func (s *Stage) WindowRestoredEvent() {}

// TouchEvent drives the left mouse button from the primary touch point.
func (s *Stage) TouchEvent(phase input.TouchPhase, id uint64, x, y float32) {
	if id != PrimaryTouch {
		return
	}
	switch phase {
	case input.TouchStarted:
		s.MouseButtonDownEvent(input.MouseLeft, x, y)
	case input.TouchMoved:
		s.MouseMotionEvent(x, y)
	case input.TouchEnded:
		s.MouseButtonUpEvent(input.MouseLeft, x, y)
	}
}

func (s *Stage) RawMouseMotion(dx, dy float32) {}
