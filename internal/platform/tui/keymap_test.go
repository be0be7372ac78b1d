package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-stage/internal/input"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestLookup(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name     string
		msg      tea.KeyMsg
		wantKey  input.Key
		wantMods input.Mods
		wantOK   bool
	}{
		{"letter", runes("a"), input.KeyA, input.Mods{}, true},
		{"upper letter", runes("Q"), input.KeyQ, input.Mods{Shift: true}, true},
		{"digit", runes("7"), input.Key7, input.Mods{}, true},
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, input.KeySpace, input.Mods{}, true},
		{"arrow", tea.KeyMsg{Type: tea.KeyUp}, input.KeyUp, input.Mods{}, true},
		{"ctrl arrow", tea.KeyMsg{Type: tea.KeyCtrlUp}, input.KeyUp, input.Mods{Ctrl: true}, true},
		{"shift tab", tea.KeyMsg{Type: tea.KeyShiftTab}, input.KeyTab, input.Mods{Shift: true}, true},
		{"alt letter", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}, Alt: true}, input.KeyX, input.Mods{Alt: true}, true},
		{"ctrl letter", tea.KeyMsg{Type: tea.KeyCtrlA}, input.KeyA, input.Mods{Ctrl: true}, true},
		{"function", tea.KeyMsg{Type: tea.KeyF5}, input.KeyF5, input.Mods{}, true},
		{"escape", tea.KeyMsg{Type: tea.KeyEsc}, input.KeyEscape, input.Mods{}, true},
		{"page down", tea.KeyMsg{Type: tea.KeyPgDown}, input.KeyPageDown, input.Mods{}, true},
		{"punctuation", runes(";"), input.KeyUnknown, input.Mods{}, false},
		{"function beyond set", tea.KeyMsg{Type: tea.KeyF13}, input.KeyUnknown, input.Mods{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, mods, ok := km.Lookup(tt.msg)
			if k != tt.wantKey || mods != tt.wantMods || ok != tt.wantOK {
				t.Errorf("Lookup(%q) = %v, %+v, %v; expected %v, %+v, %v",
					tt.msg.String(), k, mods, ok, tt.wantKey, tt.wantMods, tt.wantOK)
			}
		})
	}
}

func TestModifiersAreNotBound(t *testing.T) {
	km := DefaultKeyMap()

	for _, b := range km.Keys {
		switch b.Key {
		case input.KeyLeftCtrl, input.KeyLeftShift, input.KeyLeftAlt:
			if b.Enabled() {
				t.Errorf("%v binding enabled, expected disabled", b.Key)
			}
		default:
			if !b.Enabled() {
				t.Errorf("%v binding disabled, expected a terminal name", b.Key)
			}
		}
	}
	if got, want := len(km.Keys), len(input.AllKeys()); got != want {
		t.Errorf("len(Keys) = %d, expected %d", got, want)
	}
}

func TestFullHelpColumns(t *testing.T) {
	km := DefaultKeyMap()

	n := 0
	for i, col := range km.FullHelp() {
		if len(col) > 12 {
			t.Errorf("column %d has %d bindings, expected at most 12", i, len(col))
		}
		n += len(col)
	}
	// Quit and help, plus every enabled key.
	if want := 2 + len(input.AllKeys()) - 3; n != want {
		t.Errorf("FullHelp() lists %d bindings, expected %d", n, want)
	}
}
