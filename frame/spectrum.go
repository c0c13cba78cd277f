package frame

import (
	"math"
	"sort"
)

// FrameID is the unique identifier of an acquisition frame within an
// experiment. Ids are positive and assigned by the instrument.
type FrameID uint32

// ScanID is the drift-time (ion-mobility) index of an event within a frame.
type ScanID uint32

// MzSpectrum is one scan's sparse mass spectrum: the (m/z, intensity) pairs
// of a single (frame, scan) coordinate, sorted by m/z.
type MzSpectrum struct {
	FrameID     FrameID
	ScanID      ScanID
	MZ          []float64
	Intensities []float64
}

// NewMzSpectrum builds a spectrum from parallel m/z and intensity columns,
// sorting the pairs by m/z. The inputs are copied.
func NewMzSpectrum(frameID FrameID, scanID ScanID, mz, intensities []float64) (MzSpectrum, error) {
	if len(mz) != len(intensities) {
		return MzSpectrum{}, &ErrUnevenColumns{FrameID: frameID, Lengths: []int{len(mz), len(intensities)}}
	}

	s := MzSpectrum{
		FrameID:     frameID,
		ScanID:      scanID,
		MZ:          append([]float64(nil), mz...),
		Intensities: append([]float64(nil), intensities...),
	}
	s.sortByMz()

	return s, nil
}

func (s *MzSpectrum) sortByMz() {
	sort.Sort(byMz{mz: s.MZ, intensities: s.Intensities})
}

// Len returns the number of peaks in the spectrum.
func (s MzSpectrum) Len() int {
	return len(s.MZ)
}

// ToResolution bins every m/z value to the given decimal resolution and sums
// the intensities of peaks falling into the same bucket. The result is sorted
// by bucket and reports each bucket's representative m/z (Unbin of the index).
func (s MzSpectrum) ToResolution(resolution int) MzSpectrum {
	acc := make(map[int64]float64, len(s.MZ))
	for i, mz := range s.MZ {
		acc[Bin(mz, resolution)] += s.Intensities[i]
	}

	indices := sortedKeys(acc)

	out := MzSpectrum{
		FrameID:     s.FrameID,
		ScanID:      s.ScanID,
		MZ:          make([]float64, len(indices)),
		Intensities: make([]float64, len(indices)),
	}
	for i, idx := range indices {
		out.MZ[i] = Unbin(idx, resolution)
		out.Intensities[i] = acc[idx]
	}

	return out
}

// Merge combines two spectra of the same frame. Intensities of equal m/z
// values are summed, all other peaks pass through; the result is sorted by
// m/z and keeps the receiver's scan id. Merging spectra of different frames
// fails with ErrIdentityMismatch.
func (s MzSpectrum) Merge(other MzSpectrum) (MzSpectrum, error) {
	if s.FrameID != other.FrameID {
		return MzSpectrum{}, &ErrIdentityMismatch{Op: "merge spectrum", Left: s.FrameID, Right: other.FrameID}
	}

	out := MzSpectrum{
		FrameID:     s.FrameID,
		ScanID:      s.ScanID,
		MZ:          make([]float64, 0, len(s.MZ)+len(other.MZ)),
		Intensities: make([]float64, 0, len(s.MZ)+len(other.MZ)),
	}

	// Two-pointer merge over the sorted peak lists.
	i, j := 0, 0
	for i < len(s.MZ) && j < len(other.MZ) {
		switch {
		case s.MZ[i] < other.MZ[j]:
			out.MZ = append(out.MZ, s.MZ[i])
			out.Intensities = append(out.Intensities, s.Intensities[i])
			i++
		case s.MZ[i] > other.MZ[j]:
			out.MZ = append(out.MZ, other.MZ[j])
			out.Intensities = append(out.Intensities, other.Intensities[j])
			j++
		default:
			out.MZ = append(out.MZ, s.MZ[i])
			out.Intensities = append(out.Intensities, s.Intensities[i]+other.Intensities[j])
			i++
			j++
		}
	}
	out.MZ = append(out.MZ, s.MZ[i:]...)
	out.Intensities = append(out.Intensities, s.Intensities[i:]...)
	out.MZ = append(out.MZ, other.MZ[j:]...)
	out.Intensities = append(out.Intensities, other.Intensities[j:]...)

	return out, nil
}

// Vectorize bins the spectrum at the given resolution and returns it as a
// sparse vector of (bucket index, accumulated intensity) pairs.
func (s MzSpectrum) Vectorize(resolution int) MzVector {
	acc := make(map[int64]float64, len(s.MZ))
	for i, mz := range s.MZ {
		acc[Bin(mz, resolution)] += s.Intensities[i]
	}

	indices := sortedKeys(acc)

	v := MzVector{
		FrameID:    s.FrameID,
		ScanID:     s.ScanID,
		Resolution: resolution,
		Indices:    indices,
		Values:     make([]float64, len(indices)),
	}
	for i, idx := range indices {
		v.Values[i] = acc[idx]
	}

	return v
}

// Windows groups the spectrum into fixed-width m/z windows and returns the
// sub-spectra keyed by window index. With overlapping set, a second set of
// windows shifted by half a window length is added under negative keys, so a
// peak near a window border is covered by an unbroken window as well.
// Windows with fewer than minPeaks peaks at or above minIntensity are
// dropped.
func (s MzSpectrum) Windows(windowLength float64, overlapping bool, minPeaks int, minIntensity float64) map[int64]MzSpectrum {
	groups := make(map[int64]*MzSpectrum)

	appendPeak := func(key int64, mz, intensity float64) {
		g, ok := groups[key]
		if !ok {
			g = &MzSpectrum{FrameID: s.FrameID, ScanID: s.ScanID}
			groups[key] = g
		}
		g.MZ = append(g.MZ, mz)
		g.Intensities = append(g.Intensities, intensity)
	}

	for i, mz := range s.MZ {
		appendPeak(int64(math.Floor(mz/windowLength)), mz, s.Intensities[i])
	}

	if overlapping {
		for i, mz := range s.MZ {
			shifted := int64(math.Floor((mz + windowLength/2) / windowLength))
			appendPeak(-shifted - 1, mz, s.Intensities[i])
		}
	}

	out := make(map[int64]MzSpectrum, len(groups))
	for key, g := range groups {
		kept := 0
		for _, intensity := range g.Intensities {
			if intensity >= minIntensity {
				kept++
			}
		}
		if kept < minPeaks {
			continue
		}
		out[key] = *g
	}

	return out
}

type byMz struct {
	mz          []float64
	intensities []float64
}

func (b byMz) Len() int           { return len(b.mz) }
func (b byMz) Less(i, j int) bool { return b.mz[i] < b.mz[j] }
func (b byMz) Swap(i, j int) {
	b.mz[i], b.mz[j] = b.mz[j], b.mz[i]
	b.intensities[i], b.intensities[j] = b.intensities[j], b.intensities[i]
}

func sortedKeys(m map[int64]float64) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	return keys
}
