package dict

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleJSON = `{
  "chardefs": {
    "a": ["人", "入"],
    "ab": ["仁"],
    "hj": ["甲", "乙", "丙", "丁", "戊", "己", "庚"],
    ".": ["。"],
    "..": ["："],
    ".,": ["；"]
  }
}`

func TestParseAndLookup(t *testing.T) {
	d, err := Parse([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if d.Len() != 6 {
		t.Errorf("Len = %d, want 6", d.Len())
	}

	got := d.Lookup("a")
	if len(got) != 2 || got[0] != "人" || got[1] != "入" {
		t.Errorf("Lookup(a) = %v", got)
	}
	if d.Lookup("zz") != nil {
		t.Error("Lookup of absent code should be nil")
	}
	if got := d.Lookup("."); len(got) != 1 || got[0] != "。" {
		t.Errorf("Lookup(.) = %v", got)
	}
}

func TestLookupDeterminism(t *testing.T) {
	d, err := Parse([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	first := d.Lookup("hj")
	for i := 0; i < 100; i++ {
		again := d.Lookup("hj")
		if len(again) != len(first) {
			t.Fatalf("lookup %d: length changed", i)
		}
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("lookup %d: order changed at %d", i, j)
			}
		}
	}
}

func TestHasLongerPrefix(t *testing.T) {
	d, err := Parse([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cases := []struct {
		code string
		want bool
	}{
		{"a", true},   // "ab" extends it
		{"ab", false}, // exact only
		{"h", true},   // "hj"
		{"hj", false},
		{".", true}, // ".." and ".,"
		{"..", false},
		{"zz", false},
	}
	for _, tc := range cases {
		if got := d.HasLongerPrefix(tc.code); got != tc.want {
			t.Errorf("HasLongerPrefix(%q) = %v, want %v", tc.code, got, tc.want)
		}
	}
}

func TestLowercaseMerge(t *testing.T) {
	d := New(map[string][]string{
		"AB": {"一", "二"},
		"ab": {"二", "三"},
	})
	got := d.Lookup("ab")
	// Sorted source order: "AB" before "ab"; duplicate "二" dropped.
	want := []string{"一", "二", "三"}
	if len(got) != len(want) {
		t.Fatalf("Lookup(ab) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Lookup(ab) = %v, want %v", got, want)
		}
	}
	if d.Len() != 1 {
		t.Errorf("Len = %d, want 1", d.Len())
	}
	if got := d.Lookup("AB"); len(got) != 3 {
		t.Errorf("mixed-case lookup should fold: %v", got)
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"not json", `{`},
		{"missing chardefs", `{"defs": {}}`},
		{"empty table", `{"chardefs": {}}`},
		{"code too long", `{"chardefs": {"abcdef": ["x"]}}`},
		{"empty candidates", `{"chardefs": {"a": []}}`},
		{"non-string candidate", `{"chardefs": {"a": [1]}}`},
		{"non-ascii code", `{"chardefs": {"碼": ["x"]}}`},
	}
	for _, tc := range cases {
		if _, err := Parse([]byte(tc.data)); err == nil {
			t.Errorf("%s: Parse should fail", tc.name)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "liu.json")
	if err := os.WriteFile(path, []byte(sampleJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	d, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.Checksum() == "" {
		t.Error("Load should record a checksum")
	}
	if len(d.Checksum()) != 64 {
		t.Errorf("checksum length = %d, want 64 hex chars", len(d.Checksum()))
	}

	again, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if again.Checksum() != d.Checksum() {
		t.Error("checksum should be stable across loads")
	}

	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Load of missing file should fail")
	}
}
