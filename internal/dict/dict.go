// Package dict loads and indexes the radical-code dictionary. A dictionary is
// immutable after construction: the dispatcher shares it freely without
// locking and a reload builds a fresh one.
package dict

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/crypto/blake2b"
)

// MaxCodeLen is the longest code a dictionary key (and the engine's buffer)
// may hold.
const MaxCodeLen = 5

// schemaJSON describes the on-disk chardefs document. Codes are 1-5 printable
// ASCII characters; each maps to a non-empty ordered candidate list.
const schemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["chardefs"],
  "properties": {
    "chardefs": {
      "type": "object",
      "minProperties": 1,
      "propertyNames": {
        "pattern": "^[\\x21-\\x7e]{1,5}$"
      },
      "additionalProperties": {
        "type": "array",
        "minItems": 1,
        "items": {
          "type": "string",
          "minLength": 1
        }
      }
    }
  }
}`

var schema = jsonschema.MustCompileString("chardefs.schema.json", schemaJSON)

// Dictionary maps radical codes to ordered candidate lists. Candidate order
// is the priority order; the first candidate is the default commit.
type Dictionary struct {
	entries  map[string][]string
	keys     []string // sorted, for prefix probes
	checksum string
}

type chardefsFile struct {
	Chardefs map[string][]string `json:"chardefs"`
}

// Load reads, validates, and indexes a dictionary file.
func Load(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dictionary: %w", err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("dictionary %s: %w", path, err)
	}
	return d, nil
}

// Parse validates raw chardefs JSON against the embedded schema and builds
// the index. Keys are folded to lower case; when folding collides, candidate
// lists merge in key order with duplicates dropped, so the result is
// deterministic for a given document.
func Parse(data []byte) (*Dictionary, error) {
	var doc interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse dictionary: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("invalid dictionary: %w", err)
	}

	var file chardefsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse dictionary: %w", err)
	}

	d := build(file.Chardefs)
	sum := blake2b.Sum256(data)
	d.checksum = hex.EncodeToString(sum[:])
	return d, nil
}

// New builds a dictionary from an in-memory table, with the same lowercase
// folding as Parse. Intended for tests and tooling.
func New(table map[string][]string) *Dictionary {
	return build(table)
}

func build(table map[string][]string) *Dictionary {
	// Merge in sorted source-key order so case-fold collisions resolve the
	// same way on every load.
	srcKeys := make([]string, 0, len(table))
	for k := range table {
		srcKeys = append(srcKeys, k)
	}
	sort.Strings(srcKeys)

	entries := make(map[string][]string, len(table))
	for _, k := range srcKeys {
		folded := strings.ToLower(k)
		existing := entries[folded]
		for _, cand := range table[k] {
			if !contains(existing, cand) {
				existing = append(existing, cand)
			}
		}
		entries[folded] = existing
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return &Dictionary{entries: entries, keys: keys}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Lookup returns the candidates for an exact code, nil when absent. The
// returned slice is shared; callers must not modify it.
func (d *Dictionary) Lookup(code string) []string {
	return d.entries[strings.ToLower(code)]
}

// HasLongerPrefix reports whether some strictly longer key starts with code.
// An exact match alone does not count.
func (d *Dictionary) HasLongerPrefix(code string) bool {
	if code == "" {
		return len(d.keys) > 0
	}
	code = strings.ToLower(code)
	i := sort.SearchStrings(d.keys, code)
	if i < len(d.keys) && d.keys[i] == code {
		i++
	}
	return i < len(d.keys) && strings.HasPrefix(d.keys[i], code)
}

// Len returns the number of distinct codes.
func (d *Dictionary) Len() int {
	return len(d.keys)
}

// Checksum returns the BLAKE2b-256 hex digest of the source document, or ""
// for in-memory dictionaries.
func (d *Dictionary) Checksum() string {
	return d.checksum
}
