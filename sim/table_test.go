package sim

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/table-sim/sim/internal/testutil"
)

func TestNewTable_TruncatesExistingFile(t *testing.T) {
	// GIVEN a stale table file from an earlier run
	dir := t.TempDir()
	testutil.WriteLines(t, dir, "tbl2.txt", "old")

	// WHEN table 1 (0-indexed) is created
	tbl, err := NewTable(dir, 1)

	// THEN the file is empty and named after the 1-indexed id
	require.NoError(t, err)
	assert.Equal(t, "tbl2.txt", tbl.Name)
	assert.Equal(t, 1, tbl.ID)
	assert.Empty(t, testutil.ReadLines(t, tbl.Path))
}

func TestTable_Append_OneLinePerPayload(t *testing.T) {
	// GIVEN a fresh table
	tbl, err := NewTable(t.TempDir(), 0)
	require.NoError(t, err)

	// WHEN two payloads are appended, one containing spaces
	require.NoError(t, tbl.Append("hello world"))
	require.NoError(t, tbl.Append("second"))

	// THEN the file holds them in append order
	assert.Equal(t, []string{"hello world", "second"}, testutil.ReadLines(t, tbl.Path))
	assert.Equal(t, int64(len("hello world\nsecond\n")), tbl.Metrics.BytesAppended.Load())
}

func TestTable_Append_MissingFile_ReturnsAppendError(t *testing.T) {
	// GIVEN a table whose directory vanished
	dir := filepath.Join(t.TempDir(), "gone")
	require.NoError(t, os.Mkdir(dir, 0755))
	tbl, err := NewTable(dir, 0)
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(dir))

	// WHEN appending
	err = tbl.Append("x")

	// THEN the error is classified as an append error
	assert.ErrorIs(t, err, ErrAppend)
}

func TestNewTable_UnwritableDir_ReturnsResourceError(t *testing.T) {
	_, err := NewTable(filepath.Join(t.TempDir(), "missing", "dir"), 0)
	assert.ErrorIs(t, err, ErrResource)
}
