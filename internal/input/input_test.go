package input

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

var allStates = []ButtonState{ButtonUp, ButtonJustUp, ButtonJustDown, ButtonDown}

func TestLevelTable(t *testing.T) {
	tests := []struct {
		in   ButtonState
		want ButtonState
	}{
		{ButtonUp, ButtonUp},
		{ButtonJustUp, ButtonUp},
		{ButtonJustDown, ButtonDown},
		{ButtonDown, ButtonDown},
	}

	for _, tt := range tests {
		if got := tt.in.Level(); got != tt.want {
			t.Errorf("%v.Level() = %v, expected %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelIdempotent(t *testing.T) {
	for _, s := range allStates {
		once := s.Level()
		if twice := once.Level(); twice != once {
			t.Errorf("%v.Level().Level() = %v, expected %v", s, twice, once)
		}
		if once.IsEdge() {
			t.Errorf("%v.Level() = %v, expected a level state", s, once)
		}
	}
}

func TestButtonPredicates(t *testing.T) {
	if !ButtonJustDown.Pressed() || ButtonDown.Pressed() {
		t.Error("Pressed() should only hold for JustDown")
	}
	if !ButtonJustUp.Released() || ButtonUp.Released() {
		t.Error("Released() should only hold for JustUp")
	}
	if !ButtonJustDown.IsDown() || !ButtonDown.IsDown() {
		t.Error("IsDown() should hold for JustDown and Down")
	}
	if !ButtonJustUp.IsUp() || !ButtonUp.IsUp() {
		t.Error("IsUp() should hold for JustUp and Up")
	}
}

func TestKeyboardSetReturnsPrevious(t *testing.T) {
	var kb Keyboard

	if prev := kb.Set(KeySpace, ButtonJustDown); prev != ButtonUp {
		t.Errorf("Set() = %v, expected Up", prev)
	}
	if prev := kb.Set(KeySpace, ButtonJustUp); prev != ButtonJustDown {
		t.Errorf("Set() = %v, expected JustDown", prev)
	}
	if got := kb.Get(KeySpace); got != ButtonJustUp {
		t.Errorf("Get(Space) = %v, expected JustUp", got)
	}
}

func TestKeyboardIgnoresInvalidKeys(t *testing.T) {
	var kb Keyboard
	before := kb

	if prev := kb.Set(KeyUnknown, ButtonJustDown); prev != ButtonUp {
		t.Errorf("Set(KeyUnknown) = %v, expected Up", prev)
	}
	kb.Set(KeyCount, ButtonJustDown)
	kb.Set(KeyCount+10, ButtonDown)

	if diff := cmp.Diff(before, kb); diff != "" {
		t.Errorf("invalid keys changed the keyboard (-before +after):\n%s", diff)
	}
	if got := kb.Get(KeyCount + 1); got != ButtonUp {
		t.Errorf("Get(invalid) = %v, expected Up", got)
	}
}

func TestMouseUnknownButtonIgnored(t *testing.T) {
	var m Mouse
	m.SetButton(MouseUnknown, ButtonJustDown)

	if diff := cmp.Diff(Mouse{}, m); diff != "" {
		t.Errorf("unknown button changed the mouse (-want +got):\n%s", diff)
	}
}

func TestFrameDecay(t *testing.T) {
	f := NewFrame(Window{Width: 10, Height: 10})
	f.Mouse.Left = ButtonJustDown
	f.Mouse.Right = ButtonJustUp
	f.Mouse.Middle = ButtonDown
	f.Keyboard.Set(KeyA, ButtonJustDown)
	f.Keyboard.Set(KeyB, ButtonJustUp)

	f.Decay()

	want := NewFrame(Window{Width: 10, Height: 10})
	want.Mouse.Left = ButtonDown
	want.Mouse.Middle = ButtonDown
	want.Keyboard.Keys[KeyA] = ButtonDown

	if diff := cmp.Diff(want, f); diff != "" {
		t.Errorf("Decay() mismatch (-want +got):\n%s", diff)
	}
}

func TestFrameCopyIsIndependent(t *testing.T) {
	a := NewFrame(Window{Width: 1, Height: 1})
	b := a

	a.Keyboard.Set(KeyEscape, ButtonJustDown)
	a.Mouse.Left = ButtonJustDown

	if b.Key(KeyEscape) != ButtonUp || b.Mouse.Left != ButtonUp {
		t.Error("copied frame should not observe writes to the original")
	}
}

func TestTransitions(t *testing.T) {
	prev := NewFrame(Window{})
	cur := prev
	cur.Mouse.Left = ButtonJustDown
	cur.Keyboard.Set(KeySpace, ButtonJustUp)

	got := Transitions(&prev, &cur)
	want := []Transition{
		{Name: "MouseLeft", From: ButtonUp, To: ButtonJustDown},
		{Name: "Space", From: ButtonUp, To: ButtonJustUp},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Transitions() mismatch (-want +got):\n%s", diff)
	}
}

func TestKeyNames(t *testing.T) {
	tests := []struct {
		key  Key
		name string
	}{
		{KeyA, "A"},
		{KeyZ, "Z"},
		{Key0, "0"},
		{Key9, "9"},
		{KeyF1, "F1"},
		{KeyF12, "F12"},
		{KeySpace, "Space"},
		{KeyLeftShift, "LeftShift"},
		{KeyUnknown, "Unknown"},
		{KeyCount, "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.key.String(); got != tt.name {
			t.Errorf("Key(%d).String() = %q, expected %q", tt.key, got, tt.name)
		}
	}

	for _, k := range AllKeys() {
		parsed, ok := ParseKey(k.String())
		if !ok || parsed != k {
			t.Errorf("ParseKey(%q) = %v, %v; expected %v", k.String(), parsed, ok, k)
		}
	}
}

func TestWindowAspect(t *testing.T) {
	if got := (Window{Width: 1024, Height: 768}).Aspect(); got < 1.333 || got > 1.334 {
		t.Errorf("Aspect() = %v, expected ~1.333", got)
	}
	if got := (Window{Width: 100}).Aspect(); got != 1 {
		t.Errorf("Aspect() of zero-height window = %v, expected 1", got)
	}
}
