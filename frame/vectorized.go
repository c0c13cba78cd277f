package frame

import "sort"

// VectorizedFrame is a frame re-expressed as one sparse vector per scan at a
// fixed decimal resolution. Vectors are ordered by scan id and all share the
// frame's resolution.
type VectorizedFrame struct {
	ID         FrameID
	Resolution int
	Vectors    []MzVector
}

// Len returns the number of per-scan vectors.
func (vf VectorizedFrame) Len() int {
	return len(vf.Vectors)
}

// Scans returns the scan ids covered by the frame, in ascending order.
func (vf VectorizedFrame) Scans() []ScanID {
	scans := make([]ScanID, len(vf.Vectors))
	for i, v := range vf.Vectors {
		scans[i] = v.ScanID
	}

	return scans
}

// Spectra returns the per-scan sparse vectors, the frame's native
// representation.
func (vf VectorizedFrame) Spectra() []MzVector {
	return append([]MzVector(nil), vf.Vectors...)
}

// FilterRanged retains the vector entries with scanMin <= scan <= scanMax,
// indexMin <= bucket index <= indexMax and value >= intensityMin. Scans whose
// vectors become empty are dropped. Bounds with min > max fail with
// ErrInvalidRange.
func (vf VectorizedFrame) FilterRanged(scanMin, scanMax ScanID, indexMin, indexMax int64, intensityMin float64) (VectorizedFrame, error) {
	if scanMin > scanMax {
		return VectorizedFrame{}, &ErrInvalidRange{Field: "scan", Min: float64(scanMin), Max: float64(scanMax)}
	}
	if indexMin > indexMax {
		return VectorizedFrame{}, &ErrInvalidRange{Field: "index", Min: float64(indexMin), Max: float64(indexMax)}
	}

	out := VectorizedFrame{ID: vf.ID, Resolution: vf.Resolution}
	for _, v := range vf.Vectors {
		if v.ScanID < scanMin || v.ScanID > scanMax {
			continue
		}
		filtered := MzVector{
			FrameID:    v.FrameID,
			ScanID:     v.ScanID,
			Resolution: v.Resolution,
		}
		for i, idx := range v.Indices {
			if idx < indexMin || idx > indexMax || v.Values[i] < intensityMin {
				continue
			}
			filtered.Indices = append(filtered.Indices, idx)
			filtered.Values = append(filtered.Values, v.Values[i])
		}
		if filtered.Len() == 0 {
			continue
		}
		out.Vectors = append(out.Vectors, filtered)
	}

	return out, nil
}

// Merge combines two vectorized frames of the same id and resolution. Scans
// present in both operands are merged vector-wise, scans present in only one
// pass through unchanged; the result stays ordered by scan id.
func (vf VectorizedFrame) Merge(other VectorizedFrame) (VectorizedFrame, error) {
	if vf.ID != other.ID {
		return VectorizedFrame{}, &ErrIdentityMismatch{Op: "merge vectorized frame", Left: vf.ID, Right: other.ID}
	}
	if vf.Resolution != other.Resolution {
		return VectorizedFrame{}, &ErrResolutionMismatch{Op: "merge vectorized frame", Expected: vf.Resolution, Actual: other.Resolution}
	}

	byScan := make(map[ScanID]MzVector, len(vf.Vectors)+len(other.Vectors))
	for _, v := range vf.Vectors {
		byScan[v.ScanID] = v
	}
	for _, v := range other.Vectors {
		existing, ok := byScan[v.ScanID]
		if !ok {
			byScan[v.ScanID] = v
			continue
		}
		merged, err := existing.Merge(v)
		if err != nil {
			return VectorizedFrame{}, err
		}
		byScan[v.ScanID] = merged
	}

	scans := make([]ScanID, 0, len(byScan))
	for scan := range byScan {
		scans = append(scans, scan)
	}
	sort.Slice(scans, func(i, j int) bool { return scans[i] < scans[j] })

	out := VectorizedFrame{
		ID:         vf.ID,
		Resolution: vf.Resolution,
		Vectors:    make([]MzVector, len(scans)),
	}
	for i, scan := range scans {
		out.Vectors[i] = byScan[scan]
	}

	return out, nil
}

// TotalIntensity returns the summed value of all vectors.
func (vf VectorizedFrame) TotalIntensity() float64 {
	var total float64
	for _, v := range vf.Vectors {
		total += v.Sum()
	}

	return total
}
