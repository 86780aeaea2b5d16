// Package stats keeps a SQLite journal of committed codes for usage
// statistics. Only the code, the committed character count, and the commit
// source are recorded; committed text never touches disk. The journal is
// strictly observational: candidate order is never derived from it.
package stats

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS commits (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	ts_ns INTEGER NOT NULL,
	code TEXT NOT NULL,
	chars INTEGER NOT NULL,
	source TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_commits_code ON commits(code);
CREATE INDEX IF NOT EXISTS idx_commits_ts ON commits(ts_ns);
`

// Commit sources.
const (
	SourceDefault    = "default"    // space/enter on the first candidate
	SourceComplement = "complement" // complement-code selection
	SourceDigit      = "digit"      // numbered selection
	SourceSymbol     = "symbol"     // symbol resolver
)

// Journal is a commit journal backed by SQLite.
type Journal struct {
	db *sql.DB
}

// Totals aggregates the whole journal.
type Totals struct {
	Commits       int64
	DistinctCodes int64
	Chars         int64
}

// CodeCount is a per-code commit tally.
type CodeCount struct {
	Code  string
	Count int64
}

// Open creates or opens the journal database.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create stats directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open stats database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Journal{db: db}, nil
}

// RecordCommit appends one commit. chars is the rune count of the committed
// text; the text itself is not stored.
func (j *Journal) RecordCommit(code string, chars int, source string) error {
	_, err := j.db.Exec(
		"INSERT INTO commits (ts_ns, code, chars, source) VALUES (?, ?, ?, ?)",
		time.Now().UnixNano(), code, chars, source,
	)
	if err != nil {
		return fmt.Errorf("record commit: %w", err)
	}
	return nil
}

// Totals returns journal-wide aggregates.
func (j *Journal) Totals() (Totals, error) {
	var t Totals
	row := j.db.QueryRow(
		"SELECT COUNT(*), COUNT(DISTINCT code), COALESCE(SUM(chars), 0) FROM commits",
	)
	if err := row.Scan(&t.Commits, &t.DistinctCodes, &t.Chars); err != nil {
		return Totals{}, fmt.Errorf("query totals: %w", err)
	}
	return t, nil
}

// TopCodes returns the n most-committed codes, most frequent first. Ties
// break alphabetically so the output is stable.
func (j *Journal) TopCodes(n int) ([]CodeCount, error) {
	rows, err := j.db.Query(
		"SELECT code, COUNT(*) AS c FROM commits GROUP BY code ORDER BY c DESC, code ASC LIMIT ?", n,
	)
	if err != nil {
		return nil, fmt.Errorf("query top codes: %w", err)
	}
	defer rows.Close()

	var result []CodeCount
	for rows.Next() {
		var cc CodeCount
		if err := rows.Scan(&cc.Code, &cc.Count); err != nil {
			return nil, fmt.Errorf("scan top codes: %w", err)
		}
		result = append(result, cc)
	}
	return result, rows.Err()
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}
