// Package keymap defines the logical key model shared by the engine and its
// platform frontends. Physical input (X11 keysyms, evdev codes) is normalized
// into a small Key enum here so the dispatch logic never sees platform values.
package keymap

import (
	"fmt"
	"strings"
)

// Key is a logical key identity. Left/right variants of modifiers are folded
// into a single value; the engine does not distinguish them.
type Key int

const (
	KeyNone Key = iota

	// Letters a-z.
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

	// Top-row digits 0-9.
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

	// Punctuation on a US layout, unshifted.
	KeyComma
	KeyPeriod
	KeySemicolon
	KeyApostrophe
	KeySlash
	KeyBackslash
	KeyMinus
	KeyEquals
	KeyGrave
	KeyLeftBracket
	KeyRightBracket

	// Editing and commit keys.
	KeySpace
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyTab
	KeyDelete

	// Modifiers.
	KeyShift
	KeyCtrl
	KeyAlt
	KeyMeta

	// Locks.
	KeyCapsLock
	KeyNumLock
	KeyScrollLock

	// Function keys.
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

	// Navigation.
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert
)

// Event is a single normalized key event. Shift and Ctrl reflect the modifier
// state at the time of the event. Injected marks events the process generated
// itself; the dispatcher passes those through untouched.
type Event struct {
	Key      Key
	Down     bool
	Shift    bool
	Ctrl     bool
	Injected bool
}

// IsLetter reports whether k is one of the letter keys a-z.
func (k Key) IsLetter() bool {
	return k >= KeyA && k <= KeyZ
}

// IsDigit reports whether k is a top-row digit key.
func (k Key) IsDigit() bool {
	return k >= Key0 && k <= Key9
}

// IsSymbol reports whether k is a punctuation key.
func (k Key) IsSymbol() bool {
	return k >= KeyComma && k <= KeyRightBracket
}

// IsPrintable reports whether k produces a character on its own.
func (k Key) IsPrintable() bool {
	return k.IsLetter() || k.IsDigit() || k.IsSymbol() || k == KeySpace
}

// IsModifier reports whether k is a bare modifier key.
func (k Key) IsModifier() bool {
	return k >= KeyShift && k <= KeyMeta
}

// IsFunction reports whether k is one of F1-F12.
func (k Key) IsFunction() bool {
	return k >= KeyF1 && k <= KeyF12
}

// Digit returns the numeric value of a digit key, or -1.
func (k Key) Digit() int {
	if !k.IsDigit() {
		return -1
	}
	return int(k - Key0)
}

// Rune returns the unshifted character a printable key produces, or 0.
func (k Key) Rune() rune {
	switch {
	case k.IsLetter():
		return 'a' + rune(k-KeyA)
	case k.IsDigit():
		return '0' + rune(k-Key0)
	case k == KeySpace:
		return ' '
	}
	switch k {
	case KeyComma:
		return ','
	case KeyPeriod:
		return '.'
	case KeySemicolon:
		return ';'
	case KeyApostrophe:
		return '\''
	case KeySlash:
		return '/'
	case KeyBackslash:
		return '\\'
	case KeyMinus:
		return '-'
	case KeyEquals:
		return '='
	case KeyGrave:
		return '`'
	case KeyLeftBracket:
		return '['
	case KeyRightBracket:
		return ']'
	}
	return 0
}

// FromRune maps an unshifted US-layout character to its Key.
func FromRune(r rune) Key {
	switch {
	case r >= 'a' && r <= 'z':
		return KeyA + Key(r-'a')
	case r >= 'A' && r <= 'Z':
		return KeyA + Key(r-'A')
	case r >= '0' && r <= '9':
		return Key0 + Key(r-'0')
	case r == ' ':
		return KeySpace
	}
	switch r {
	case ',':
		return KeyComma
	case '.':
		return KeyPeriod
	case ';':
		return KeySemicolon
	case '\'':
		return KeyApostrophe
	case '/':
		return KeySlash
	case '\\':
		return KeyBackslash
	case '-':
		return KeyMinus
	case '=':
		return KeyEquals
	case '`':
		return KeyGrave
	case '[':
		return KeyLeftBracket
	case ']':
		return KeyRightBracket
	}
	return KeyNone
}

var keyNames = map[Key]string{
	KeyNone:       "none",
	KeySpace:      "space",
	KeyEnter:      "enter",
	KeyEscape:     "esc",
	KeyBackspace:  "backspace",
	KeyTab:        "tab",
	KeyDelete:     "delete",
	KeyShift:      "shift",
	KeyCtrl:       "ctrl",
	KeyAlt:        "alt",
	KeyMeta:       "meta",
	KeyCapsLock:   "capslock",
	KeyNumLock:    "numlock",
	KeyScrollLock: "scrolllock",
	KeyLeft:       "left",
	KeyRight:      "right",
	KeyUp:         "up",
	KeyDown:       "down",
	KeyHome:       "home",
	KeyEnd:        "end",
	KeyPageUp:     "pageup",
	KeyPageDown:   "pagedown",
	KeyInsert:     "insert",
}

// String returns a stable lowercase name suitable for config files and logs.
func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	if k.IsFunction() {
		return fmt.Sprintf("f%d", int(k-KeyF1)+1)
	}
	if r := k.Rune(); r != 0 {
		return string(r)
	}
	return fmt.Sprintf("key(%d)", int(k))
}

// Parse resolves a key name from configuration ("f4", "esc", "space", single
// characters) to a Key. Names are case-insensitive.
func Parse(name string) (Key, error) {
	s := strings.ToLower(strings.TrimSpace(name))
	if s == "" {
		return KeyNone, fmt.Errorf("empty key name")
	}
	for k, n := range keyNames {
		if s == n {
			return k, nil
		}
	}
	switch s {
	case "escape":
		return KeyEscape, nil
	case "return":
		return KeyEnter, nil
	}
	if len(s) >= 2 && s[0] == 'f' {
		var n int
		if _, err := fmt.Sscanf(s, "f%d", &n); err == nil && n >= 1 && n <= 12 {
			return KeyF1 + Key(n-1), nil
		}
	}
	if len(s) == 1 {
		if k := FromRune(rune(s[0])); k != KeyNone {
			return k, nil
		}
	}
	return KeyNone, fmt.Errorf("unknown key name %q", name)
}
