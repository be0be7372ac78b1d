package input

import "time"

// Vec2 is a 2D position in logical pixels.
type Vec2 struct {
	X, Y float32
}

// MouseButton identifies a pointer button as reported by a backend.
type MouseButton uint8

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
	MouseUnknown
)

// String returns a human-readable name for the button.
func (b MouseButton) String() string {
	switch b {
	case MouseLeft:
		return "Left"
	case MouseRight:
		return "Right"
	case MouseMiddle:
		return "Middle"
	default:
		return "Unknown"
	}
}

// TouchPhase is the phase of a touch event.
type TouchPhase uint8

const (
	TouchStarted TouchPhase = iota
	TouchMoved
	TouchEnded
	TouchCancelled
)

// Time is the frame clock carried by every snapshot.
type Time struct {
	Frame      uint64    // Frames published so far; 0 for the first frame
	SinceStart float64   // Seconds since the stage was created
	LastFrame  time.Time // Wall-clock time of the last publish
}

// Window is the drawable size in logical pixels.
// It is only changed by resize notifications.
type Window struct {
	Width, Height float32
}

// Aspect returns width/height, or 1 for a window with no height.
func (w Window) Aspect() float32 {
	if w.Height == 0 {
		return 1
	}
	return w.Width / w.Height
}

// Mouse is the pointer position and the three tracked buttons.
type Mouse struct {
	Pos    Vec2
	Left   ButtonState
	Right  ButtonState
	Middle ButtonState
}

// Button returns the state of b. Unknown buttons read as ButtonUp.
func (m Mouse) Button(b MouseButton) ButtonState {
	switch b {
	case MouseLeft:
		return m.Left
	case MouseRight:
		return m.Right
	case MouseMiddle:
		return m.Middle
	default:
		return ButtonUp
	}
}

// SetButton overwrites the state of b. Unknown buttons are ignored.
func (m *Mouse) SetButton(b MouseButton, s ButtonState) {
	switch b {
	case MouseLeft:
		m.Left = s
	case MouseRight:
		m.Right = s
	case MouseMiddle:
		m.Middle = s
	}
}

// Decay advances every button to its level state.
func (m *Mouse) Decay() {
	m.Left = m.Left.Level()
	m.Right = m.Right.Level()
	m.Middle = m.Middle.Level()
}

// Frame is the complete input snapshot for one frame.
// It holds no maps or slices, so assigning a Frame copies it entirely.
type Frame struct {
	Time     Time
	Window   Window
	Mouse    Mouse
	Keyboard Keyboard
}

// NewFrame returns a quiescent frame for a window of the given size.
func NewFrame(win Window) Frame {
	return Frame{Window: win}
}

// Decay advances every button and key to its level state.
func (f *Frame) Decay() {
	f.Mouse.Decay()
	f.Keyboard.Decay()
}

// Key is shorthand for f.Keyboard.Get(k).
func (f Frame) Key(k Key) ButtonState {
	return f.Keyboard.Get(k)
}

// Transition records a button or key whose state differs between two frames.
type Transition struct {
	Name string
	From ButtonState
	To   ButtonState
}

// Transitions lists every mouse button and key whose state changed from prev
// to cur. Used for diagnostics only; it allocates.
func Transitions(prev, cur *Frame) []Transition {
	var out []Transition
	for _, b := range []MouseButton{MouseLeft, MouseRight, MouseMiddle} {
		if from, to := prev.Mouse.Button(b), cur.Mouse.Button(b); from != to {
			out = append(out, Transition{Name: "Mouse" + b.String(), From: from, To: to})
		}
	}
	for k := KeyUnknown + 1; k < KeyCount; k++ {
		if from, to := prev.Keyboard.Keys[k], cur.Keyboard.Keys[k]; from != to {
			out = append(out, Transition{Name: k.String(), From: from, To: to})
		}
	}
	return out
}
