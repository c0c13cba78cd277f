package frame

// PointTable is a read-only tabular projection of a set of frames: one row
// per event with columns (frame, scan, m/z, inverse mobility, intensity).
// Row order follows frame order, then within-frame event order.
type PointTable struct {
	Frames         []FrameID
	Scans          []ScanID
	MZ             []float64
	InvIonMobility []float64
	Intensities    []float64
}

// Len returns the number of rows.
func (t PointTable) Len() int {
	return len(t.Frames)
}

func newPointTable(frames []Frame) PointTable {
	n := 0
	for _, f := range frames {
		n += f.Len()
	}

	t := PointTable{
		Frames:         make([]FrameID, 0, n),
		Scans:          make([]ScanID, 0, n),
		MZ:             make([]float64, 0, n),
		InvIonMobility: make([]float64, 0, n),
		Intensities:    make([]float64, 0, n),
	}
	for _, f := range frames {
		for i := range f.Scans {
			t.Frames = append(t.Frames, f.ID)
			t.Scans = append(t.Scans, f.Scans[i])
			t.MZ = append(t.MZ, f.MZ[i])
			t.InvIonMobility = append(t.InvIonMobility, f.InvIonMobility[i])
			t.Intensities = append(t.Intensities, f.Intensities[i])
		}
	}

	return t
}
