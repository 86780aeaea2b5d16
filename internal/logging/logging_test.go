package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"ERROR", LevelError},
	}
	for _, tc := range cases {
		got, err := ParseLevel(tc.in)
		if err != nil {
			t.Errorf("ParseLevel(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("ParseLevel(verbose) should fail")
	}
}

func TestFileOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logs", "liuime.log")

	l, err := New(&Config{
		Level:    LevelInfo,
		Format:   FormatJSON,
		Output:   "file",
		FilePath: path,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Info("daemon started", "pid", 42)
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "daemon started") {
		t.Errorf("log entry missing: %s", data)
	}
}

func TestTextElidedAboveDebug(t *testing.T) {
	info, err := New(&Config{Level: LevelInfo, Output: "stderr"})
	if err != nil {
		t.Fatal(err)
	}
	if got := info.Text("text", "秘密").Value.String(); got != "[elided]" {
		t.Errorf("info-level text attr = %q, want elided", got)
	}

	debug, err := New(&Config{Level: LevelDebug, Output: "stderr"})
	if err != nil {
		t.Fatal(err)
	}
	if got := debug.Text("text", "秘密").Value.String(); got != "秘密" {
		t.Errorf("debug-level text attr = %q", got)
	}
}
