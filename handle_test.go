package timsgo

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mzkit/timsgo/frame"
	"github.com/mzkit/timsgo/metadata"
	"github.com/mzkit/timsgo/storage"
)

// writeTestExperiment lays out a minimal experiment directory: four frames,
// ids 1 and 3 tagged precursor, 2 and 4 tagged fragment.
func writeTestExperiment(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()

	db, err := sql.Open("sqlite", filepath.Join(dir, metadata.DefaultMetadataFile))
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`
		CREATE TABLE Frames (Id INTEGER PRIMARY KEY, Time REAL, MsMsType INTEGER, NumScans INTEGER);
		CREATE TABLE Precursors (Id INTEGER PRIMARY KEY, LargestPeakMz REAL, Parent INTEGER);
		INSERT INTO Frames VALUES (1, 1.0, 0, 900), (2, 2.0, 8, 900), (3, 3.0, 0, 900), (4, 4.0, 8, 900);
		INSERT INTO Precursors VALUES (1, 501.27, 1);
	`)
	require.NoError(t, err)

	file, err := os.Create(filepath.Join(dir, storage.DefaultDataFile))
	require.NoError(t, err)
	defer file.Close()

	w, err := storage.NewWriter(file)
	require.NoError(t, err)
	for id := frame.FrameID(1); id <= 4; id++ {
		f, err := frame.New(id,
			[]frame.ScanID{1, 2},
			[]float64{500.0 + float64(id), 600.0 + float64(id)},
			[]float64{float64(id) * 10, float64(id) * 20},
			[]float64{1.1, 1.2},
			nil,
		)
		require.NoError(t, err)
		require.NoError(t, w.Append(f))
	}
	require.NoError(t, w.Close())

	return dir
}

func openTestHandle(t *testing.T, opts ...Option) *DataHandle {
	t.Helper()

	dh, err := Open(context.Background(), writeTestExperiment(t), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { dh.Close() })

	return dh
}

func TestOpenFailsWithoutMetadata(t *testing.T) {
	_, err := Open(context.Background(), t.TempDir())
	require.Error(t, err)
}

func TestOpenFailsWithoutContainer(t *testing.T) {
	dir := writeTestExperiment(t)
	require.NoError(t, os.Remove(filepath.Join(dir, storage.DefaultDataFile)))

	_, err := Open(context.Background(), dir)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDataHandlePartitions(t *testing.T) {
	dh := openTestHandle(t)

	assert.Equal(t, []frame.FrameID{1, 3}, dh.PrecursorFrameIDs())
	assert.Equal(t, []frame.FrameID{2, 4}, dh.FragmentFrameIDs())
}

func TestGetFrame(t *testing.T) {
	dh := openTestHandle(t)

	f, err := dh.GetFrame(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, frame.FrameID(3), f.ID)
	assert.Equal(t, []float64{503.0, 603.0}, f.MZ)
	assert.Equal(t, []float64{30, 60}, f.Intensities)
}

func TestGetFrameNotFound(t *testing.T) {
	dh := openTestHandle(t)

	_, err := dh.GetFrame(context.Background(), 99)
	require.ErrorIs(t, err, ErrNotFound)

	// The typed cause names the missing id.
	var notFound *metadata.ErrFrameNotFound
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, frame.FrameID(99), notFound.FrameID)
}

func TestGetSlice(t *testing.T) {
	dh := openTestHandle(t, WithFetchConcurrency(2))

	// Ids are requested out of order; partitions come back sorted by id.
	slice, err := dh.GetSlice(context.Background(), []frame.FrameID{3, 1}, []frame.FrameID{4, 2})
	require.NoError(t, err)

	require.Len(t, slice.Precursors, 2)
	require.Len(t, slice.Fragments, 2)
	assert.Equal(t, frame.FrameID(1), slice.Precursors[0].ID)
	assert.Equal(t, frame.FrameID(3), slice.Precursors[1].ID)
	assert.Equal(t, frame.FrameID(2), slice.Fragments[0].ID)
	assert.Equal(t, frame.FrameID(4), slice.Fragments[1].ID)
}

func TestGetSliceAllOrNothing(t *testing.T) {
	dh := openTestHandle(t)

	_, err := dh.GetSlice(context.Background(), []frame.FrameID{1, 99}, nil)
	require.ErrorIs(t, err, ErrNotFound)

	var notFound *metadata.ErrFrameNotFound
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, frame.FrameID(99), notFound.FrameID)
}

func TestGetSliceRTRange(t *testing.T) {
	dh := openTestHandle(t)

	t.Run("window with frames", func(t *testing.T) {
		slice, err := dh.GetSliceRTRange(context.Background(), 1.0, 3.0)
		require.NoError(t, err)

		require.Len(t, slice.Precursors, 2)
		require.Len(t, slice.Fragments, 1)
		assert.Equal(t, frame.FrameID(2), slice.Fragments[0].ID)
	})

	t.Run("empty window yields empty slice", func(t *testing.T) {
		slice, err := dh.GetSliceRTRange(context.Background(), 100.0, 200.0)
		require.NoError(t, err)

		assert.Empty(t, slice.Precursors)
		assert.Empty(t, slice.Fragments)
	})
}

func TestFramesToRetentionTimes(t *testing.T) {
	dh := openTestHandle(t)

	times, err := dh.FramesToRetentionTimes([]frame.FrameID{4, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{4.0, 1.0}, times)

	_, err = dh.FramesToRetentionTimes([]frame.FrameID{1, 99})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSelectedPrecursorsPassThrough(t *testing.T) {
	dh := openTestHandle(t)

	records, err := dh.SelectedPrecursors(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, records.Len())

	byID, err := dh.PrecursorByID(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 1, byID.Len())
	assert.Equal(t, []string{"Id", "LargestPeakMz", "Parent"}, byID.Columns)
}

func TestGetSliceWithRateLimit(t *testing.T) {
	dh := openTestHandle(t, WithFetchRateLimit(10000))

	slice, err := dh.GetSlice(context.Background(), []frame.FrameID{1}, []frame.FrameID{2})
	require.NoError(t, err)
	assert.Len(t, slice.Precursors, 1)
	assert.Len(t, slice.Fragments, 1)
}
