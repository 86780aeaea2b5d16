package stats

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "data", "stats.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestEmptyJournal(t *testing.T) {
	j := openTestJournal(t)

	totals, err := j.Totals()
	require.NoError(t, err)
	assert.Zero(t, totals.Commits)
	assert.Zero(t, totals.DistinctCodes)
	assert.Zero(t, totals.Chars)

	top, err := j.TopCodes(5)
	require.NoError(t, err)
	assert.Empty(t, top)
}

func TestRecordAndAggregate(t *testing.T) {
	j := openTestJournal(t)

	require.NoError(t, j.RecordCommit("hj", 1, SourceComplement))
	require.NoError(t, j.RecordCommit("hj", 1, SourceDefault))
	require.NoError(t, j.RecordCommit("hj", 1, SourceDigit))
	require.NoError(t, j.RecordCommit("a", 1, SourceDefault))
	require.NoError(t, j.RecordCommit("..", 1, SourceSymbol))

	totals, err := j.Totals()
	require.NoError(t, err)
	assert.Equal(t, int64(5), totals.Commits)
	assert.Equal(t, int64(3), totals.DistinctCodes)
	assert.Equal(t, int64(5), totals.Chars)

	top, err := j.TopCodes(2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "hj", top[0].Code)
	assert.Equal(t, int64(3), top[0].Count)
}

func TestTopCodesTieBreak(t *testing.T) {
	j := openTestJournal(t)

	require.NoError(t, j.RecordCommit("b", 1, SourceDefault))
	require.NoError(t, j.RecordCommit("a", 1, SourceDefault))

	top, err := j.TopCodes(10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "a", top[0].Code)
	assert.Equal(t, "b", top[1].Code)
}

func TestJournalPersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.db")

	j, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, j.RecordCommit("hj", 2, SourceDefault))
	require.NoError(t, j.Close())

	j2, err := Open(path)
	require.NoError(t, err)
	defer j2.Close()

	totals, err := j2.Totals()
	require.NoError(t, err)
	assert.Equal(t, int64(1), totals.Commits)
	assert.Equal(t, int64(2), totals.Chars)
}
