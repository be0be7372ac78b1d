// Package input holds the per-frame input snapshot that platform backends
// fill in and application systems read.
// It contains no external dependencies so the automaton stays pure and testable.
package input

// ButtonState is the state of a single mouse button or key within a frame.
// ButtonUp and ButtonDown are level states; ButtonJustUp and ButtonJustDown are
// edge states that hold for exactly one published frame.
type ButtonState uint8

const (
	ButtonUp ButtonState = iota
	ButtonJustUp
	ButtonJustDown
	ButtonDown
)

// Level advances an edge state to the level state it leads to.
// Level states are returned unchanged, so Level is idempotent.
func (s ButtonState) Level() ButtonState {
	switch s {
	case ButtonJustUp:
		return ButtonUp
	case ButtonJustDown:
		return ButtonDown
	default:
		return s
	}
}

// IsEdge returns true for ButtonJustUp and ButtonJustDown.
func (s ButtonState) IsEdge() bool {
	return s == ButtonJustUp || s == ButtonJustDown
}

// IsDown returns true if the button is held, including the frame it was pressed.
func (s ButtonState) IsDown() bool {
	return s == ButtonJustDown || s == ButtonDown
}

// IsUp returns true if the button is released, including the frame it was released.
func (s ButtonState) IsUp() bool {
	return !s.IsDown()
}

// Pressed returns true only on the frame the button went down.
func (s ButtonState) Pressed() bool {
	return s == ButtonJustDown
}

// Released returns true only on the frame the button went up.
func (s ButtonState) Released() bool {
	return s == ButtonJustUp
}

// String returns a human-readable name for the state.
func (s ButtonState) String() string {
	switch s {
	case ButtonUp:
		return "Up"
	case ButtonJustUp:
		return "JustUp"
	case ButtonJustDown:
		return "JustDown"
	case ButtonDown:
		return "Down"
	default:
		return "Unknown"
	}
}
