package frame

import (
	"errors"
	"sort"
)

// ErrInvalidFoldWidth is returned when Fold is called with a width below 1.
var ErrInvalidFoldWidth = errors.New("fold width must be >= 1")

// Frame is one acquisition frame: the columnar event table of a single
// time-indexed instrument sweep. The Scans, MZ, Intensities and
// InvIonMobility columns correspond positionally; TOF is the instrument's
// optional time-of-flight index column and is either empty or of the same
// length as the others.
//
// A Frame exclusively owns its columns. It is never mutated after
// construction; every operation returns a new Frame.
type Frame struct {
	ID             FrameID
	Scans          []ScanID
	MZ             []float64
	Intensities    []float64
	InvIonMobility []float64
	TOF            []int32
}

// New builds a frame from parallel event columns, copying all inputs.
// tof may be nil for data without a time-of-flight index. Columns of unequal
// length fail with ErrUnevenColumns.
func New(id FrameID, scans []ScanID, mz, intensities, invIonMobility []float64, tof []int32) (Frame, error) {
	n := len(scans)
	if len(mz) != n || len(intensities) != n || len(invIonMobility) != n || (tof != nil && len(tof) != n) {
		lengths := []int{n, len(mz), len(intensities), len(invIonMobility)}
		if tof != nil {
			lengths = append(lengths, len(tof))
		}
		return Frame{}, &ErrUnevenColumns{FrameID: id, Lengths: lengths}
	}

	f := Frame{
		ID:             id,
		Scans:          append([]ScanID(nil), scans...),
		MZ:             append([]float64(nil), mz...),
		Intensities:    append([]float64(nil), intensities...),
		InvIonMobility: append([]float64(nil), invIonMobility...),
	}
	if tof != nil {
		f.TOF = append([]int32(nil), tof...)
	}

	return f, nil
}

// Empty returns a frame with the given id and no events.
func Empty(id FrameID) Frame {
	return Frame{ID: id}
}

// Len returns the number of events in the frame.
func (f Frame) Len() int {
	return len(f.Scans)
}

// hasTOF reports whether the frame carries a time-of-flight column.
func (f Frame) hasTOF() bool {
	return len(f.TOF) == len(f.Scans) && len(f.TOF) > 0
}

// FilterRanged retains the events with scanMin <= scan <= scanMax,
// mzMin <= m/z <= mzMax and intensity >= intensityMin, preserving relative
// event order. The result keeps the frame id even when no event survives.
// Bounds with min > max fail with ErrInvalidRange.
func (f Frame) FilterRanged(scanMin, scanMax ScanID, mzMin, mzMax, intensityMin float64) (Frame, error) {
	if scanMin > scanMax {
		return Frame{}, &ErrInvalidRange{Field: "scan", Min: float64(scanMin), Max: float64(scanMax)}
	}
	if mzMin > mzMax {
		return Frame{}, &ErrInvalidRange{Field: "mz", Min: mzMin, Max: mzMax}
	}

	out := Frame{ID: f.ID}
	for i, scan := range f.Scans {
		if scan < scanMin || scan > scanMax {
			continue
		}
		if f.MZ[i] < mzMin || f.MZ[i] > mzMax {
			continue
		}
		if f.Intensities[i] < intensityMin {
			continue
		}
		out.Scans = append(out.Scans, scan)
		out.MZ = append(out.MZ, f.MZ[i])
		out.Intensities = append(out.Intensities, f.Intensities[i])
		out.InvIonMobility = append(out.InvIonMobility, f.InvIonMobility[i])
		if f.hasTOF() {
			out.TOF = append(out.TOF, f.TOF[i])
		}
	}

	return out, nil
}

// ToResolution bins every m/z value to the given decimal resolution. Events
// of the same scan falling into the same bucket are combined: intensities are
// summed, inverse mobility and TOF index are taken from the first event that
// hit the bucket. The result is sorted by scan, then bucket.
func (f Frame) ToResolution(resolution int) Frame {
	type key struct {
		scan   ScanID
		bucket int64
	}
	type entry struct {
		scan           ScanID
		bucket         int64
		intensity      float64
		invIonMobility float64
		tof            int32
	}

	pos := make(map[key]int, len(f.Scans))
	entries := make([]entry, 0, len(f.Scans))

	for i, scan := range f.Scans {
		k := key{scan: scan, bucket: Bin(f.MZ[i], resolution)}
		if p, ok := pos[k]; ok {
			entries[p].intensity += f.Intensities[i]
			continue
		}
		e := entry{
			scan:           scan,
			bucket:         k.bucket,
			intensity:      f.Intensities[i],
			invIonMobility: f.InvIonMobility[i],
		}
		if f.hasTOF() {
			e.tof = f.TOF[i]
		}
		pos[k] = len(entries)
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].scan != entries[j].scan {
			return entries[i].scan < entries[j].scan
		}
		return entries[i].bucket < entries[j].bucket
	})

	out := Frame{
		ID:             f.ID,
		Scans:          make([]ScanID, len(entries)),
		MZ:             make([]float64, len(entries)),
		Intensities:    make([]float64, len(entries)),
		InvIonMobility: make([]float64, len(entries)),
	}
	if f.hasTOF() {
		out.TOF = make([]int32, len(entries))
	}
	for i, e := range entries {
		out.Scans[i] = e.scan
		out.MZ[i] = Unbin(e.bucket, resolution)
		out.Intensities[i] = e.intensity
		out.InvIonMobility[i] = e.invIonMobility
		if f.hasTOF() {
			out.TOF[i] = e.tof
		}
	}

	return out
}

// Fold combines width adjacent scan indices into one (new scan = old scan
// divided by width) and then bins the m/z axis to the given resolution,
// trading drift-time resolution for signal density. A width of 1 is a pure
// resolution reduction. Widths below 1 fail with ErrInvalidFoldWidth.
func (f Frame) Fold(resolution, width int) (Frame, error) {
	if width < 1 {
		return Frame{}, ErrInvalidFoldWidth
	}

	folded := Frame{
		ID:             f.ID,
		Scans:          make([]ScanID, len(f.Scans)),
		MZ:             f.MZ,
		Intensities:    f.Intensities,
		InvIonMobility: f.InvIonMobility,
		TOF:            f.TOF,
	}
	for i, scan := range f.Scans {
		folded.Scans[i] = scan / ScanID(width)
	}

	return folded.ToResolution(resolution), nil
}

// Merge concatenates the events of two frames with the same id, the receiver's
// events first. No accumulation happens here: the raw merge is the union of
// both event multisets, and bucket accumulation is deferred to ToResolution
// or Vectorize. The TOF column survives only when both operands carry one.
// Merging frames with different ids fails with ErrIdentityMismatch.
func (f Frame) Merge(other Frame) (Frame, error) {
	if f.ID != other.ID {
		return Frame{}, &ErrIdentityMismatch{Op: "merge frame", Left: f.ID, Right: other.ID}
	}

	out := Frame{
		ID:             f.ID,
		Scans:          concat(f.Scans, other.Scans),
		MZ:             concat(f.MZ, other.MZ),
		Intensities:    concat(f.Intensities, other.Intensities),
		InvIonMobility: concat(f.InvIonMobility, other.InvIonMobility),
	}
	if (f.hasTOF() || f.Len() == 0) && (other.hasTOF() || other.Len() == 0) && (f.hasTOF() || other.hasTOF()) {
		out.TOF = concat(f.TOF, other.TOF)
	}

	return out, nil
}

// Vectorize bins the frame at the given resolution and regroups it into one
// sparse vector per scan, ordered by scan id. Intensities of colliding
// buckets are summed; total intensity is conserved.
func (f Frame) Vectorize(resolution int) VectorizedFrame {
	acc := make(map[ScanID]map[int64]float64)
	for i, scan := range f.Scans {
		buckets, ok := acc[scan]
		if !ok {
			buckets = make(map[int64]float64)
			acc[scan] = buckets
		}
		buckets[Bin(f.MZ[i], resolution)] += f.Intensities[i]
	}

	vf := VectorizedFrame{
		ID:         f.ID,
		Resolution: resolution,
		Vectors:    make([]MzVector, 0, len(acc)),
	}
	for _, scan := range sortedScans(acc) {
		buckets := acc[scan]
		indices := sortedKeys(buckets)
		v := MzVector{
			FrameID:    f.ID,
			ScanID:     scan,
			Resolution: resolution,
			Indices:    indices,
			Values:     make([]float64, len(indices)),
		}
		for i, idx := range indices {
			v.Values[i] = buckets[idx]
		}
		vf.Vectors = append(vf.Vectors, v)
	}

	return vf
}

// Spectra regroups the frame into one sparse spectrum per scan id present,
// ordered by scan id and sorted by m/z within each spectrum. Scans without
// events are omitted.
func (f Frame) Spectra() []MzSpectrum {
	groups := make(map[ScanID]*MzSpectrum)
	for i, scan := range f.Scans {
		g, ok := groups[scan]
		if !ok {
			g = &MzSpectrum{FrameID: f.ID, ScanID: scan}
			groups[scan] = g
		}
		g.MZ = append(g.MZ, f.MZ[i])
		g.Intensities = append(g.Intensities, f.Intensities[i])
	}

	scans := make([]ScanID, 0, len(groups))
	for scan := range groups {
		scans = append(scans, scan)
	}
	sort.Slice(scans, func(i, j int) bool { return scans[i] < scans[j] })

	out := make([]MzSpectrum, 0, len(groups))
	for _, scan := range scans {
		s := groups[scan]
		s.sortByMz()
		out = append(out, *s)
	}

	return out
}

// TotalIntensity returns the summed intensity of all events.
func (f Frame) TotalIntensity() float64 {
	var total float64
	for _, intensity := range f.Intensities {
		total += intensity
	}

	return total
}

func concat[T any](a, b []T) []T {
	out := make([]T, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)

	return out
}

func sortedScans(m map[ScanID]map[int64]float64) []ScanID {
	scans := make([]ScanID, 0, len(m))
	for scan := range m {
		scans = append(scans, scan)
	}
	sort.Slice(scans, func(i, j int) bool { return scans[i] < scans[j] })

	return scans
}
