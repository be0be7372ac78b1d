package tui

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-stage/internal/input"
)

// Binding ties a canonical key to the terminal key names that produce it.
type Binding struct {
	Key input.Key
	key.Binding
}

// KeyMap holds the backend's own bindings and the translation table from
// terminal key names to canonical keys.
// This centralizes key bindings and makes them testable.
type KeyMap struct {
	Quit key.Binding
	Help key.Binding

	Keys  []Binding
	index map[string]input.Key
}

// DefaultKeyMap returns the standard bindings: ctrl+c quits, ? toggles the
// full help, and every canonical key a terminal can report is mapped.
func DefaultKeyMap() KeyMap {
	km := KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "keys"),
		),
		index: make(map[string]input.Key, input.KeyCount*2),
	}

	for _, k := range input.AllKeys() {
		names := terminalNames(k)
		b := Binding{Key: k}
		if len(names) == 0 {
			// Terminals never report modifiers on their own.
			b.Binding = key.NewBinding(key.WithHelp("-", k.String()), key.WithDisabled())
		} else {
			b.Binding = key.NewBinding(key.WithKeys(names...), key.WithHelp(display(names[0]), k.String()))
		}
		km.Keys = append(km.Keys, b)
		for _, n := range names {
			km.index[n] = k
		}
	}
	return km
}

// terminalNames returns the tea.KeyMsg strings of k without modifiers.
func terminalNames(k input.Key) []string {
	switch {
	case k >= input.KeyA && k <= input.KeyZ:
		r := rune('a' + int(k-input.KeyA))
		return []string{string(r), string(unicode.ToUpper(r))}
	case k >= input.Key0 && k <= input.Key9:
		return []string{string(rune('0' + int(k-input.Key0)))}
	case k >= input.KeyF1 && k <= input.KeyF12:
		return []string{strings.ToLower(k.String())}
	}

	switch k {
	case input.KeySpace:
		return []string{" "}
	case input.KeyEscape:
		return []string{"esc"}
	case input.KeyTab:
		return []string{"tab"}
	case input.KeyEnter:
		return []string{"enter"}
	case input.KeyBackspace:
		return []string{"backspace"}
	case input.KeyDelete:
		return []string{"delete"}
	case input.KeyInsert:
		return []string{"insert"}
	case input.KeyHome:
		return []string{"home"}
	case input.KeyEnd:
		return []string{"end"}
	case input.KeyPageUp:
		return []string{"pgup"}
	case input.KeyPageDown:
		return []string{"pgdown"}
	case input.KeyUp:
		return []string{"up"}
	case input.KeyDown:
		return []string{"down"}
	case input.KeyLeft:
		return []string{"left"}
	case input.KeyRight:
		return []string{"right"}
	}
	return nil
}

func display(name string) string {
	if name == " " {
		return "space"
	}
	return name
}

var modPrefixes = []string{"ctrl+", "alt+", "shift+"}

// Lookup translates a key message to a canonical key and its modifiers.
// An upper-case letter reports Shift. It returns false for keys outside the
// canonical set.
func (km KeyMap) Lookup(msg tea.KeyMsg) (input.Key, input.Mods, bool) {
	var mods input.Mods
	name := msg.String()

	for stripped := true; stripped; {
		stripped = false
		for _, p := range modPrefixes {
			rest, ok := strings.CutPrefix(name, p)
			if !ok || rest == "" {
				continue
			}
			switch p {
			case "ctrl+":
				mods.Ctrl = true
			case "alt+":
				mods.Alt = true
			case "shift+":
				mods.Shift = true
			}
			name = rest
			stripped = true
		}
	}

	k, ok := km.index[name]
	if !ok {
		return input.KeyUnknown, mods, false
	}
	if r := []rune(name); len(r) == 1 && unicode.IsUpper(r[0]) {
		mods.Shift = true
	}
	return k, mods, true
}

// ShortHelp implements help.KeyMap.
func (km KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{km.Quit, km.Help}
}

// FullHelp implements help.KeyMap. Mapped keys are listed in columns of
// twelve.
func (km KeyMap) FullHelp() [][]key.Binding {
	cols := [][]key.Binding{km.ShortHelp()}
	var col []key.Binding
	for _, b := range km.Keys {
		if !b.Enabled() {
			continue
		}
		col = append(col, b.Binding)
		if len(col) == 12 {
			cols = append(cols, col)
			col = nil
		}
	}
	if len(col) > 0 {
		cols = append(cols, col)
	}
	return cols
}
