package keymap

import "testing"

func TestRuneRoundTrip(t *testing.T) {
	for r := 'a'; r <= 'z'; r++ {
		k := FromRune(r)
		if k == KeyNone {
			t.Fatalf("FromRune(%q) = KeyNone", r)
		}
		if got := k.Rune(); got != r {
			t.Errorf("Rune(FromRune(%q)) = %q", r, got)
		}
	}
	for r := '0'; r <= '9'; r++ {
		k := FromRune(r)
		if !k.IsDigit() {
			t.Errorf("FromRune(%q) not a digit key", r)
		}
		if k.Digit() != int(r-'0') {
			t.Errorf("Digit(%q) = %d", r, k.Digit())
		}
	}
	for _, r := range ",.;'/\\-=`[]" {
		k := FromRune(r)
		if !k.IsSymbol() {
			t.Errorf("FromRune(%q) not a symbol key", r)
		}
		if got := k.Rune(); got != r {
			t.Errorf("Rune(FromRune(%q)) = %q", r, got)
		}
	}
}

func TestUppercaseFoldsToLetterKey(t *testing.T) {
	if FromRune('A') != KeyA || FromRune('Z') != KeyZ {
		t.Error("uppercase letters should fold to their letter key")
	}
}

func TestClassification(t *testing.T) {
	cases := []struct {
		key       Key
		printable bool
		modifier  bool
	}{
		{KeyA, true, false},
		{Key0, true, false},
		{KeyPeriod, true, false},
		{KeySpace, true, false},
		{KeyShift, false, true},
		{KeyCtrl, false, true},
		{KeyF4, false, false},
		{KeyLeft, false, false},
		{KeyCapsLock, false, false},
		{KeyEnter, false, false},
	}
	for _, tc := range cases {
		if tc.key.IsPrintable() != tc.printable {
			t.Errorf("%v IsPrintable = %v, want %v", tc.key, tc.key.IsPrintable(), tc.printable)
		}
		if tc.key.IsModifier() != tc.modifier {
			t.Errorf("%v IsModifier = %v, want %v", tc.key, tc.key.IsModifier(), tc.modifier)
		}
	}
}

func TestFromKeysym(t *testing.T) {
	cases := []struct {
		keyval uint32
		want   Key
	}{
		{0x61, KeyA},           // 'a'
		{0x41, KeyA},           // 'A'
		{0x7a, KeyZ},           // 'z'
		{0x30, Key0},           // '0'
		{0x2e, KeyPeriod},      // '.'
		{0x2c, KeyComma},       // ','
		{0x20, KeySpace},       // space
		{0xff08, KeyBackspace}, // BackSpace
		{0xff0d, KeyEnter},     // Return
		{0xff8d, KeyEnter},     // KP_Enter
		{0xff1b, KeyEscape},    // Escape
		{0xffe1, KeyShift},     // Shift_L
		{0xffe2, KeyShift},     // Shift_R
		{0xffe3, KeyCtrl},      // Control_L
		{0xffc1, KeyF4},        // F4
		{0xff51, KeyLeft},      // Left
		{0xffff, KeyDelete},    // Delete
		{0xdead0, KeyNone},
	}
	for _, tc := range cases {
		if got := FromKeysym(tc.keyval); got != tc.want {
			t.Errorf("FromKeysym(%#x) = %v, want %v", tc.keyval, got, tc.want)
		}
	}
}

func TestFromEvdev(t *testing.T) {
	cases := []struct {
		code uint16
		want Key
	}{
		{30, KeyA},
		{16, KeyQ},
		{44, KeyZ},
		{2, Key1},
		{11, Key0},
		{52, KeyPeriod},
		{57, KeySpace},
		{28, KeyEnter},
		{42, KeyShift}, // left
		{54, KeyShift}, // right
		{29, KeyCtrl},
		{62, KeyF4},
		{255, KeyNone},
	}
	for _, tc := range cases {
		if got := FromEvdev(tc.code); got != tc.want {
			t.Errorf("FromEvdev(%d) = %v, want %v", tc.code, got, tc.want)
		}
	}
	if FromX11Keycode(38) != KeyA { // evdev 30 + 8
		t.Error("FromX11Keycode should subtract the X11 offset")
	}
}

func TestParse(t *testing.T) {
	cases := []struct {
		name string
		want Key
	}{
		{"f4", KeyF4},
		{"F12", KeyF12},
		{"esc", KeyEscape},
		{"escape", KeyEscape},
		{"space", KeySpace},
		{"enter", KeyEnter},
		{"q", KeyQ},
		{".", KeyPeriod},
	}
	for _, tc := range cases {
		got, err := Parse(tc.name)
		if err != nil {
			t.Errorf("Parse(%q): %v", tc.name, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Parse(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
	if _, err := Parse("f13"); err == nil {
		t.Error("Parse(f13) should fail")
	}
	if _, err := Parse(""); err == nil {
		t.Error("Parse of empty name should fail")
	}
}

func TestStringParseRoundTrip(t *testing.T) {
	for _, k := range []Key{KeyA, Key7, KeyPeriod, KeySpace, KeyEscape, KeyF4, KeyEnter, KeyBackspace} {
		parsed, err := Parse(k.String())
		if err != nil {
			t.Errorf("Parse(%q): %v", k.String(), err)
			continue
		}
		if parsed != k {
			t.Errorf("Parse(String(%v)) = %v", k, parsed)
		}
	}
}
