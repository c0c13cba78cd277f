package frame

// Slice is a retention-time-bounded collection of frames, partitioned into
// precursor (survey) and fragment frames by the instrument's per-frame
// acquisition tag. A frame belongs to exactly one partition; partitioning is
// never derived from frame content.
type Slice struct {
	Precursors []Frame
	Fragments  []Frame
}

// NewSlice builds a slice from the two partitions, copying both.
func NewSlice(precursors, fragments []Frame) Slice {
	return Slice{
		Precursors: append([]Frame(nil), precursors...),
		Fragments:  append([]Frame(nil), fragments...),
	}
}

// PrecursorFrames returns the precursor partition.
func (s Slice) PrecursorFrames() []Frame {
	return append([]Frame(nil), s.Precursors...)
}

// FragmentFrames returns the fragment partition.
func (s Slice) FragmentFrames() []Frame {
	return append([]Frame(nil), s.Fragments...)
}

// FilterRanged applies Frame.FilterRanged with the given bounds to every
// frame of both partitions. Frames whose events are all filtered away are
// retained as empty frames, so frame identity and count are stable across
// filtering.
func (s Slice) FilterRanged(mzMin, mzMax float64, scanMin, scanMax ScanID, intensityMin float64) (Slice, error) {
	filterAll := func(frames []Frame) ([]Frame, error) {
		out := make([]Frame, len(frames))
		for i, f := range frames {
			filtered, err := f.FilterRanged(scanMin, scanMax, mzMin, mzMax, intensityMin)
			if err != nil {
				return nil, err
			}
			out[i] = filtered
		}
		return out, nil
	}

	precursors, err := filterAll(s.Precursors)
	if err != nil {
		return Slice{}, err
	}
	fragments, err := filterAll(s.Fragments)
	if err != nil {
		return Slice{}, err
	}

	return Slice{Precursors: precursors, Fragments: fragments}, nil
}

// PrecursorPoints flattens the precursor partition into a point table.
func (s Slice) PrecursorPoints() PointTable {
	return newPointTable(s.Precursors)
}

// FragmentPoints flattens the fragment partition into a point table.
func (s Slice) FragmentPoints() PointTable {
	return newPointTable(s.Fragments)
}

// Points flattens both partitions into one point table, precursors first.
func (s Slice) Points() PointTable {
	return newPointTable(concat(s.Precursors, s.Fragments))
}
