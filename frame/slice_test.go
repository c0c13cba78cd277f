package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSlice(t *testing.T) Slice {
	t.Helper()

	p1 := mustFrame(t, 1, []ScanID{1, 2}, []float64{500.0, 600.0}, []float64{10, 20})
	p2 := mustFrame(t, 3, []ScanID{1}, []float64{700.0}, []float64{30})
	f1 := mustFrame(t, 2, []ScanID{5}, []float64{300.0}, []float64{5})

	return NewSlice([]Frame{p1, p2}, []Frame{f1})
}

func TestSlicePartitions(t *testing.T) {
	s := testSlice(t)

	precursors := s.PrecursorFrames()
	fragments := s.FragmentFrames()

	require.Len(t, precursors, 2)
	require.Len(t, fragments, 1)
	assert.Equal(t, FrameID(1), precursors[0].ID)
	assert.Equal(t, FrameID(3), precursors[1].ID)
	assert.Equal(t, FrameID(2), fragments[0].ID)
}

func TestSliceFilterRanged(t *testing.T) {
	s := testSlice(t)

	got, err := s.FilterRanged(400.0, 650.0, 0, 100, 0)
	require.NoError(t, err)

	// Filtering keeps the partitioning and retains emptied frames, so frame
	// identity and count are stable.
	require.Len(t, got.Precursors, 2)
	require.Len(t, got.Fragments, 1)
	assert.Equal(t, 2, got.Precursors[0].Len())
	assert.Equal(t, FrameID(3), got.Precursors[1].ID)
	assert.Zero(t, got.Precursors[1].Len())
	assert.Zero(t, got.Fragments[0].Len())
}

func TestSliceFilterRangedInvalidRange(t *testing.T) {
	s := testSlice(t)

	_, err := s.FilterRanged(650.0, 400.0, 0, 100, 0)

	var invalid *ErrInvalidRange
	require.ErrorAs(t, err, &invalid)
}

func TestSlicePoints(t *testing.T) {
	s := testSlice(t)

	t.Run("precursor points", func(t *testing.T) {
		points := s.PrecursorPoints()

		require.Equal(t, 3, points.Len())
		assert.Equal(t, []FrameID{1, 1, 3}, points.Frames)
		assert.Equal(t, []ScanID{1, 2, 1}, points.Scans)
		assert.Equal(t, []float64{500.0, 600.0, 700.0}, points.MZ)
		assert.Equal(t, []float64{10, 20, 30}, points.Intensities)
	})

	t.Run("fragment points", func(t *testing.T) {
		points := s.FragmentPoints()

		require.Equal(t, 1, points.Len())
		assert.Equal(t, []FrameID{2}, points.Frames)
	})

	t.Run("combined points precursors first", func(t *testing.T) {
		points := s.Points()

		require.Equal(t, 4, points.Len())
		assert.Equal(t, []FrameID{1, 1, 3, 2}, points.Frames)
	})
}

func TestEmptySlicePoints(t *testing.T) {
	s := NewSlice(nil, nil)

	assert.Zero(t, s.Points().Len())
	assert.Empty(t, s.PrecursorFrames())
	assert.Empty(t, s.FragmentFrames())
}
