package frame

// MzVector is a resolution-reduced spectrum: the sparse vector of
// (bucket index, accumulated intensity) pairs of a single (frame, scan)
// coordinate at a fixed decimal resolution. Indices and Values correspond
// positionally and are kept in ascending index order.
type MzVector struct {
	FrameID    FrameID
	ScanID     ScanID
	Resolution int
	Indices    []int64
	Values     []float64
}

// Len returns the number of occupied buckets.
func (v MzVector) Len() int {
	return len(v.Indices)
}

// Merge combines two vectors of the same frame and resolution. Values of
// shared indices are summed, all other entries pass through; the result stays
// in ascending index order and keeps the receiver's scan id. A differing
// resolution fails with ErrResolutionMismatch, a differing frame id with
// ErrIdentityMismatch.
func (v MzVector) Merge(other MzVector) (MzVector, error) {
	if v.FrameID != other.FrameID {
		return MzVector{}, &ErrIdentityMismatch{Op: "merge vector", Left: v.FrameID, Right: other.FrameID}
	}
	if v.Resolution != other.Resolution {
		return MzVector{}, &ErrResolutionMismatch{Op: "merge vector", Expected: v.Resolution, Actual: other.Resolution}
	}

	out := MzVector{
		FrameID:    v.FrameID,
		ScanID:     v.ScanID,
		Resolution: v.Resolution,
		Indices:    make([]int64, 0, len(v.Indices)+len(other.Indices)),
		Values:     make([]float64, 0, len(v.Indices)+len(other.Indices)),
	}

	i, j := 0, 0
	for i < len(v.Indices) && j < len(other.Indices) {
		switch {
		case v.Indices[i] < other.Indices[j]:
			out.Indices = append(out.Indices, v.Indices[i])
			out.Values = append(out.Values, v.Values[i])
			i++
		case v.Indices[i] > other.Indices[j]:
			out.Indices = append(out.Indices, other.Indices[j])
			out.Values = append(out.Values, other.Values[j])
			j++
		default:
			out.Indices = append(out.Indices, v.Indices[i])
			out.Values = append(out.Values, v.Values[i]+other.Values[j])
			i++
			j++
		}
	}
	out.Indices = append(out.Indices, v.Indices[i:]...)
	out.Values = append(out.Values, v.Values[i:]...)
	out.Indices = append(out.Indices, other.Indices[j:]...)
	out.Values = append(out.Values, other.Values[j:]...)

	return out, nil
}

// Sum returns the total intensity held by the vector.
func (v MzVector) Sum() float64 {
	var total float64
	for _, val := range v.Values {
		total += val
	}

	return total
}
