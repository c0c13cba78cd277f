package metadata

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mzkit/timsgo/frame"
)

func writeTestTDF(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), DefaultMetadataFile)

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`
		CREATE TABLE Frames (Id INTEGER PRIMARY KEY, Time REAL, MsMsType INTEGER, NumScans INTEGER);
		CREATE TABLE Precursors (Id INTEGER PRIMARY KEY, LargestPeakMz REAL, Charge INTEGER, Parent INTEGER);
		INSERT INTO Frames VALUES (1, 0.5, 0, 900), (2, 0.7, 8, 900), (3, 0.9, 0, 900);
		INSERT INTO Precursors VALUES (1, 501.27, 2, 1), (2, 655.92, 3, 3);
	`)
	require.NoError(t, err)

	return path
}

func TestOpenMissingFile(t *testing.T) {
	// The driver creates missing databases lazily, so opening a bogus
	// directory path is what actually fails.
	_, err := Open(filepath.Join(t.TempDir(), "missing", DefaultMetadataFile))
	require.Error(t, err)
}

func TestFrames(t *testing.T) {
	db, err := Open(writeTestTDF(t))
	require.NoError(t, err)
	defer db.Close()

	table, err := db.Frames(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, table.Len())
	assert.Equal(t, []frame.FrameID{1, 3}, table.PrecursorIDs())
	assert.Equal(t, []frame.FrameID{2}, table.FragmentIDs())

	rt, err := table.RetentionTime(2)
	require.NoError(t, err)
	assert.Equal(t, 0.7, rt)
}

func TestSelectedPrecursors(t *testing.T) {
	db, err := Open(writeTestTDF(t))
	require.NoError(t, err)
	defer db.Close()

	records, err := db.SelectedPrecursors(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Id", "LargestPeakMz", "Charge", "Parent"}, records.Columns)
	assert.Equal(t, 2, records.Len())
}

func TestPrecursorByID(t *testing.T) {
	db, err := Open(writeTestTDF(t))
	require.NoError(t, err)
	defer db.Close()

	records, err := db.PrecursorByID(context.Background(), 2)
	require.NoError(t, err)

	require.Equal(t, 1, records.Len())
	assert.EqualValues(t, 2, records.Rows[0][0])
}
