package keymap

// X11 keysym values for non-character keys (the GDK_KEY_* constants).
const (
	keysymBackSpace  = 0xff08
	keysymTab        = 0xff09
	keysymReturn     = 0xff0d
	keysymScrollLock = 0xff14
	keysymEscape     = 0xff1b
	keysymHome       = 0xff50
	keysymLeft       = 0xff51
	keysymUp         = 0xff52
	keysymRight      = 0xff53
	keysymDown       = 0xff54
	keysymPageUp     = 0xff55
	keysymPageDown   = 0xff56
	keysymEnd        = 0xff57
	keysymInsert     = 0xff63
	keysymNumLock    = 0xff7f
	keysymKPEnter    = 0xff8d
	keysymF1         = 0xffbe
	keysymF12        = 0xffc9
	keysymShiftL     = 0xffe1
	keysymShiftR     = 0xffe2
	keysymControlL   = 0xffe3
	keysymControlR   = 0xffe4
	keysymCapsLock   = 0xffe5
	keysymMetaL      = 0xffe7
	keysymMetaR      = 0xffe8
	keysymAltL       = 0xffe9
	keysymAltR       = 0xffea
	keysymSuperL     = 0xffeb
	keysymSuperR     = 0xffec
	keysymDelete     = 0xffff
)

// FromKeysym normalizes an X11 keysym (as delivered by IBus ProcessKeyEvent)
// to a logical Key. Shifted punctuation and uppercase letters fold to their
// unshifted key. Unknown keysyms map to KeyNone.
func FromKeysym(keyval uint32) Key {
	// Printable ASCII range maps directly.
	if keyval >= 0x20 && keyval <= 0x7e {
		return FromRune(rune(keyval))
	}

	switch keyval {
	case keysymBackSpace:
		return KeyBackspace
	case keysymTab:
		return KeyTab
	case keysymReturn, keysymKPEnter:
		return KeyEnter
	case keysymEscape:
		return KeyEscape
	case keysymDelete:
		return KeyDelete
	case keysymShiftL, keysymShiftR:
		return KeyShift
	case keysymControlL, keysymControlR:
		return KeyCtrl
	case keysymAltL, keysymAltR:
		return KeyAlt
	case keysymMetaL, keysymMetaR, keysymSuperL, keysymSuperR:
		return KeyMeta
	case keysymCapsLock:
		return KeyCapsLock
	case keysymNumLock:
		return KeyNumLock
	case keysymScrollLock:
		return KeyScrollLock
	case keysymHome:
		return KeyHome
	case keysymEnd:
		return KeyEnd
	case keysymLeft:
		return KeyLeft
	case keysymRight:
		return KeyRight
	case keysymUp:
		return KeyUp
	case keysymDown:
		return KeyDown
	case keysymPageUp:
		return KeyPageUp
	case keysymPageDown:
		return KeyPageDown
	case keysymInsert:
		return KeyInsert
	}

	if keyval >= keysymF1 && keyval <= keysymF12 {
		return KeyF1 + Key(keyval-keysymF1)
	}

	return KeyNone
}

// evdevKeys maps Linux input-event codes (KEY_* from linux/input-event-codes.h)
// to logical keys. X11 keycodes are these values plus 8.
var evdevKeys = map[uint16]Key{
	1:   KeyEscape,
	2:   Key1,
	3:   Key2,
	4:   Key3,
	5:   Key4,
	6:   Key5,
	7:   Key6,
	8:   Key7,
	9:   Key8,
	10:  Key9,
	11:  Key0,
	12:  KeyMinus,
	13:  KeyEquals,
	14:  KeyBackspace,
	15:  KeyTab,
	16:  KeyQ,
	17:  KeyW,
	18:  KeyE,
	19:  KeyR,
	20:  KeyT,
	21:  KeyY,
	22:  KeyU,
	23:  KeyI,
	24:  KeyO,
	25:  KeyP,
	26:  KeyLeftBracket,
	27:  KeyRightBracket,
	28:  KeyEnter,
	29:  KeyCtrl,
	30:  KeyA,
	31:  KeyS,
	32:  KeyD,
	33:  KeyF,
	34:  KeyG,
	35:  KeyH,
	36:  KeyJ,
	37:  KeyK,
	38:  KeyL,
	39:  KeySemicolon,
	40:  KeyApostrophe,
	41:  KeyGrave,
	42:  KeyShift,
	43:  KeyBackslash,
	44:  KeyZ,
	45:  KeyX,
	46:  KeyC,
	47:  KeyV,
	48:  KeyB,
	49:  KeyN,
	50:  KeyM,
	51:  KeyComma,
	52:  KeyPeriod,
	53:  KeySlash,
	54:  KeyShift,
	56:  KeyAlt,
	57:  KeySpace,
	58:  KeyCapsLock,
	59:  KeyF1,
	60:  KeyF2,
	61:  KeyF3,
	62:  KeyF4,
	63:  KeyF5,
	64:  KeyF6,
	65:  KeyF7,
	66:  KeyF8,
	67:  KeyF9,
	68:  KeyF10,
	69:  KeyNumLock,
	70:  KeyScrollLock,
	87:  KeyF11,
	88:  KeyF12,
	96:  KeyEnter,
	97:  KeyCtrl,
	100: KeyAlt,
	102: KeyHome,
	103: KeyUp,
	104: KeyPageUp,
	105: KeyLeft,
	106: KeyRight,
	107: KeyEnd,
	108: KeyDown,
	109: KeyPageDown,
	110: KeyInsert,
	111: KeyDelete,
	125: KeyMeta,
	126: KeyMeta,
}

// FromEvdev normalizes a Linux evdev key code to a logical Key.
func FromEvdev(code uint16) Key {
	return evdevKeys[code]
}

// FromX11Keycode normalizes an X11 hardware keycode (evdev code + 8).
func FromX11Keycode(code uint16) Key {
	if code < 8 {
		return KeyNone
	}
	return FromEvdev(code - 8)
}
