package input

import "strconv"

// Key is a canonical physical key identifier.
// Backends translate their own key codes to Key; anything they cannot
// translate is reported as KeyUnknown.
type Key uint8

const (
	KeyUnknown Key = iota

	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ

	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9

	KeySpace
	KeyEscape
	KeyTab
	KeyEnter
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown

	KeyUp
	KeyDown
	KeyLeft
	KeyRight

	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	KeyLeftCtrl
	KeyLeftShift
	KeyLeftAlt

	// KeyCount is the size of the closed key set, KeyUnknown included.
	KeyCount
)

var keyNames = map[Key]string{
	KeyUnknown:   "Unknown",
	KeySpace:     "Space",
	KeyEscape:    "Escape",
	KeyTab:       "Tab",
	KeyEnter:     "Enter",
	KeyBackspace: "Backspace",
	KeyDelete:    "Delete",
	KeyInsert:    "Insert",
	KeyHome:      "Home",
	KeyEnd:       "End",
	KeyPageUp:    "PageUp",
	KeyPageDown:  "PageDown",
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyLeft:      "Left",
	KeyRight:     "Right",
	KeyLeftCtrl:  "LeftCtrl",
	KeyLeftShift: "LeftShift",
	KeyLeftAlt:   "LeftAlt",
}

// String returns the canonical name of the key.
func (k Key) String() string {
	switch {
	case k >= KeyA && k <= KeyZ:
		return string(rune('A' + int(k-KeyA)))
	case k >= Key0 && k <= Key9:
		return string(rune('0' + int(k-Key0)))
	case k >= KeyF1 && k <= KeyF12:
		return "F" + strconv.Itoa(int(k-KeyF1)+1)
	}
	if name, ok := keyNames[k]; ok {
		return name
	}
	return keyNames[KeyUnknown]
}

// ParseKey returns the key with the given canonical name.
func ParseKey(name string) (Key, bool) {
	for k := KeyUnknown + 1; k < KeyCount; k++ {
		if k.String() == name {
			return k, true
		}
	}
	return KeyUnknown, false
}

// Valid returns true if k is a member of the closed key set.
func (k Key) Valid() bool {
	return k > KeyUnknown && k < KeyCount
}

// AllKeys returns every valid key in declaration order.
func AllKeys() []Key {
	keys := make([]Key, 0, KeyCount-1)
	for k := KeyUnknown + 1; k < KeyCount; k++ {
		keys = append(keys, k)
	}
	return keys
}

// Mods holds the modifier keys reported alongside a key or character event.
type Mods struct {
	Shift bool
	Ctrl  bool
	Alt   bool
	Logo  bool
}

// Keyboard maps every key of the closed set to its ButtonState.
// The zero value has every key Up.
type Keyboard struct {
	Keys [KeyCount]ButtonState
}

// Get returns the state of k. Invalid keys always read as ButtonUp.
func (kb Keyboard) Get(k Key) ButtonState {
	if !k.Valid() {
		return ButtonUp
	}
	return kb.Keys[k]
}

// Set overwrites the state of k and returns the previous state.
// Invalid keys are ignored and report ButtonUp.
func (kb *Keyboard) Set(k Key, s ButtonState) ButtonState {
	if !k.Valid() {
		return ButtonUp
	}
	prev := kb.Keys[k]
	kb.Keys[k] = s
	return prev
}

// Decay advances every key to its level state.
func (kb *Keyboard) Decay() {
	for i := range kb.Keys {
		kb.Keys[i] = kb.Keys[i].Level()
	}
}
