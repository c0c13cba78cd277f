package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFrame(t *testing.T) Frame {
	t.Helper()

	f, err := New(7,
		[]ScanID{1, 1, 2, 3},
		[]float64{500.001, 500.002, 250.5, 800.0},
		[]float64{10, 5, 3, 7},
		[]float64{1.1, 1.1, 1.2, 1.3},
		nil,
	)
	require.NoError(t, err)

	return f
}

func TestNewUnevenColumns(t *testing.T) {
	_, err := New(1, []ScanID{1, 2}, []float64{100.0}, []float64{1, 2}, []float64{1.0, 1.1}, nil)

	var uneven *ErrUnevenColumns
	require.ErrorAs(t, err, &uneven)
	assert.Equal(t, FrameID(1), uneven.FrameID)
}

func TestNewCopiesColumns(t *testing.T) {
	scans := []ScanID{1}
	f, err := New(1, scans, []float64{100.0}, []float64{1}, []float64{1.0}, nil)
	require.NoError(t, err)

	scans[0] = 99

	assert.Equal(t, ScanID(1), f.Scans[0])
}

func TestFilterRanged(t *testing.T) {
	f := testFrame(t)

	t.Run("retains only matching events", func(t *testing.T) {
		got, err := f.FilterRanged(1, 1, 500.0, 500.0015, 0)
		require.NoError(t, err)

		assert.Equal(t, FrameID(7), got.ID)
		assert.Equal(t, []ScanID{1}, got.Scans)
		assert.Equal(t, []float64{500.001}, got.MZ)
		assert.Equal(t, []float64{10}, got.Intensities)
	})

	t.Run("intensity lower bound is inclusive", func(t *testing.T) {
		got, err := f.FilterRanged(0, 10, 0, 1000, 7)
		require.NoError(t, err)

		assert.Equal(t, []float64{10, 800.0}, []float64{got.Intensities[0], got.MZ[1]})
		assert.Equal(t, 2, got.Len())
	})

	t.Run("idempotent", func(t *testing.T) {
		once, err := f.FilterRanged(1, 2, 200.0, 600.0, 4)
		require.NoError(t, err)
		twice, err := once.FilterRanged(1, 2, 200.0, 600.0, 4)
		require.NoError(t, err)

		assert.Equal(t, once, twice)
	})

	t.Run("empty result keeps frame id", func(t *testing.T) {
		got, err := f.FilterRanged(9, 9, 0, 1000, 0)
		require.NoError(t, err)

		assert.Equal(t, FrameID(7), got.ID)
		assert.Zero(t, got.Len())
	})

	t.Run("invalid scan range", func(t *testing.T) {
		_, err := f.FilterRanged(5, 1, 0, 1000, 0)

		var invalid *ErrInvalidRange
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "scan", invalid.Field)
	})

	t.Run("invalid mz range", func(t *testing.T) {
		_, err := f.FilterRanged(0, 10, 600.0, 500.0, 0)

		var invalid *ErrInvalidRange
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "mz", invalid.Field)
	})
}

func TestToResolution(t *testing.T) {
	f := testFrame(t)

	got := f.ToResolution(2)

	// The two scan-1 events collide in bucket 50000 and accumulate to 15,
	// keeping the first event's inverse mobility.
	require.Equal(t, 3, got.Len())
	assert.Equal(t, []ScanID{1, 2, 3}, got.Scans)
	assert.Equal(t, []float64{500.0, 250.5, 800.0}, got.MZ)
	assert.Equal(t, []float64{15, 3, 7}, got.Intensities)
	assert.Equal(t, []float64{1.1, 1.2, 1.3}, got.InvIonMobility)
}

func TestToResolutionKeepsTOFOfFirstEvent(t *testing.T) {
	f, err := New(7,
		[]ScanID{1, 1},
		[]float64{500.001, 500.002},
		[]float64{10, 5},
		[]float64{1.1, 1.1},
		[]int32{1000, 1001},
	)
	require.NoError(t, err)

	got := f.ToResolution(2)

	require.Equal(t, 1, got.Len())
	assert.Equal(t, []int32{1000}, got.TOF)
}

func TestFold(t *testing.T) {
	f := testFrame(t)

	t.Run("width collapses adjacent scans", func(t *testing.T) {
		got, err := f.Fold(2, 4)
		require.NoError(t, err)

		// All four scans land in scan 0; the colliding 500.00 bucket sums.
		assert.Equal(t, []ScanID{0, 0, 0}, got.Scans)
		assert.Equal(t, []float64{250.5, 500.0, 800.0}, got.MZ)
		assert.Equal(t, []float64{3, 15, 7}, got.Intensities)
	})

	t.Run("width one is a pure resolution reduction", func(t *testing.T) {
		folded, err := f.Fold(2, 1)
		require.NoError(t, err)

		assert.Equal(t, f.ToResolution(2), folded)
	})

	t.Run("width below one fails", func(t *testing.T) {
		_, err := f.Fold(2, 0)
		require.ErrorIs(t, err, ErrInvalidFoldWidth)
	})
}

func TestMerge(t *testing.T) {
	f := testFrame(t)

	t.Run("concatenates without accumulation", func(t *testing.T) {
		other, err := New(7, []ScanID{1}, []float64{500.001}, []float64{2}, []float64{1.1}, nil)
		require.NoError(t, err)

		merged, err := f.Merge(other)
		require.NoError(t, err)

		// Raw merge is the union of raw events; the duplicate coordinate is
		// kept until a resolution reduction accumulates it.
		assert.Equal(t, f.Len()+1, merged.Len())
		assert.Equal(t, []float64{10, 5, 3, 7, 2}, merged.Intensities)

		reduced := merged.ToResolution(2)
		assert.Equal(t, []float64{17, 3, 7}, reduced.Intensities[:3])
	})

	t.Run("merge with empty frame yields original", func(t *testing.T) {
		merged, err := f.Merge(Empty(7))
		require.NoError(t, err)

		assert.Equal(t, f, merged)
	})

	t.Run("commutative up to ordering", func(t *testing.T) {
		other, err := New(7, []ScanID{5}, []float64{600.0}, []float64{1}, []float64{0.9}, nil)
		require.NoError(t, err)

		ab, err := f.Merge(other)
		require.NoError(t, err)
		ba, err := other.Merge(f)
		require.NoError(t, err)

		assert.Equal(t, ab.ToResolution(3), ba.ToResolution(3))
	})

	t.Run("identity mismatch", func(t *testing.T) {
		one, err := New(1, []ScanID{1}, []float64{100.0}, []float64{1}, []float64{1.0}, nil)
		require.NoError(t, err)
		two, err := New(2, []ScanID{1}, []float64{100.0}, []float64{1}, []float64{1.0}, nil)
		require.NoError(t, err)

		_, err = one.Merge(two)

		var mismatch *ErrIdentityMismatch
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, FrameID(1), mismatch.Left)
		assert.Equal(t, FrameID(2), mismatch.Right)
	})

	t.Run("tof dropped unless both operands carry it", func(t *testing.T) {
		withTOF, err := New(7, []ScanID{1}, []float64{100.0}, []float64{1}, []float64{1.0}, []int32{42})
		require.NoError(t, err)

		merged, err := f.Merge(withTOF)
		require.NoError(t, err)

		assert.Empty(t, merged.TOF)
	})
}

func TestVectorize(t *testing.T) {
	f := testFrame(t)

	vf := f.Vectorize(2)

	require.Equal(t, 3, vf.Len())
	assert.Equal(t, []ScanID{1, 2, 3}, vf.Scans())
	assert.Equal(t, []int64{50000}, vf.Vectors[0].Indices)
	assert.Equal(t, []float64{15}, vf.Vectors[0].Values)

	// Binning redistributes intensity between buckets but never drops it.
	assert.InDelta(t, f.TotalIntensity(), vf.TotalIntensity(), 1e-9)
}

func TestSpectra(t *testing.T) {
	f := testFrame(t)

	spectra := f.Spectra()

	require.Len(t, spectra, 3)
	assert.Equal(t, ScanID(1), spectra[0].ScanID)
	assert.Equal(t, []float64{500.001, 500.002}, spectra[0].MZ)
	assert.Equal(t, FrameID(7), spectra[1].FrameID)
	assert.Equal(t, []float64{250.5}, spectra[1].MZ)
}
