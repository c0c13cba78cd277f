package metadata

import (
	"fmt"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/mzkit/timsgo/frame"
)

// FrameMeta is one frame's metadata row.
type FrameMeta struct {
	ID frame.FrameID
	// Time is the acquisition (retention) time in seconds.
	Time float64
	// MsMsType is the instrument's acquisition-type tag: 0 tags a precursor
	// (survey) frame, any other value a fragment frame.
	MsMsType int
	// NumScans is the frame's drift-time scan count; scan indices of the
	// frame's events are bounded by it.
	NumScans int
}

// IsPrecursor reports whether the row tags a precursor frame.
func (m FrameMeta) IsPrecursor() bool {
	return m.MsMsType == 0
}

// ErrFrameNotFound indicates a frame id absent from the metadata table.
type ErrFrameNotFound struct {
	FrameID frame.FrameID
}

func (e *ErrFrameNotFound) Error() string {
	return fmt.Sprintf("frame %d not found in metadata", e.FrameID)
}

// Table is the immutable in-memory frame metadata table of one experiment.
// All queries are read-only; a Table is safe for concurrent use.
type Table struct {
	rows       map[frame.FrameID]FrameMeta
	order      []frame.FrameID
	precursors *roaring.Bitmap
	fragments  *roaring.Bitmap
}

// NewTable builds a table from metadata rows. Rows are copied; duplicate ids
// keep the last row.
func NewTable(rows []FrameMeta) *Table {
	t := &Table{
		rows:       make(map[frame.FrameID]FrameMeta, len(rows)),
		precursors: roaring.New(),
		fragments:  roaring.New(),
	}
	for _, row := range rows {
		t.rows[row.ID] = row
		if row.IsPrecursor() {
			t.precursors.Add(uint32(row.ID))
			t.fragments.Remove(uint32(row.ID))
		} else {
			t.fragments.Add(uint32(row.ID))
			t.precursors.Remove(uint32(row.ID))
		}
	}

	t.order = make([]frame.FrameID, 0, len(t.rows))
	for id := range t.rows {
		t.order = append(t.order, id)
	}
	sort.Slice(t.order, func(i, j int) bool { return t.order[i] < t.order[j] })

	return t
}

// Len returns the number of frames in the table.
func (t *Table) Len() int {
	return len(t.rows)
}

// Contains reports whether the table holds the given frame id.
func (t *Table) Contains(id frame.FrameID) bool {
	_, ok := t.rows[id]
	return ok
}

// Get returns one frame's metadata row.
func (t *Table) Get(id frame.FrameID) (FrameMeta, error) {
	row, ok := t.rows[id]
	if !ok {
		return FrameMeta{}, &ErrFrameNotFound{FrameID: id}
	}

	return row, nil
}

// PrecursorIDs returns all precursor frame ids, in ascending order.
func (t *Table) PrecursorIDs() []frame.FrameID {
	return bitmapIDs(t.precursors)
}

// FragmentIDs returns all fragment frame ids, in ascending order.
func (t *Table) FragmentIDs() []frame.FrameID {
	return bitmapIDs(t.fragments)
}

// RetentionTime returns one frame's acquisition time in seconds.
func (t *Table) RetentionTime(id frame.FrameID) (float64, error) {
	row, ok := t.rows[id]
	if !ok {
		return 0, &ErrFrameNotFound{FrameID: id}
	}

	return row.Time, nil
}

// RetentionTimes maps frame ids to acquisition times, positionally. Any
// missing id fails the whole lookup; ids are never silently dropped.
func (t *Table) RetentionTimes(ids []frame.FrameID) ([]float64, error) {
	times := make([]float64, len(ids))
	for i, id := range ids {
		row, ok := t.rows[id]
		if !ok {
			return nil, &ErrFrameNotFound{FrameID: id}
		}
		times[i] = row.Time
	}

	return times, nil
}

// ScanCount returns one frame's drift-time scan count.
func (t *Table) ScanCount(id frame.FrameID) (int, error) {
	row, ok := t.rows[id]
	if !ok {
		return 0, &ErrFrameNotFound{FrameID: id}
	}

	return row.NumScans, nil
}

// IDsInRTRange returns the ids of all frames acquired within the inclusive
// retention-time window [rtMin, rtMax] seconds, in ascending id order.
func (t *Table) IDsInRTRange(rtMin, rtMax float64) []frame.FrameID {
	var ids []frame.FrameID
	for _, id := range t.order {
		if row := t.rows[id]; row.Time >= rtMin && row.Time <= rtMax {
			ids = append(ids, id)
		}
	}

	return ids
}

// PrecursorIDsInRTRange returns the precursor frames within the inclusive
// retention-time window, in ascending id order.
func (t *Table) PrecursorIDsInRTRange(rtMin, rtMax float64) []frame.FrameID {
	return t.idsInRTRangeByType(rtMin, rtMax, t.precursors)
}

// FragmentIDsInRTRange returns the fragment frames within the inclusive
// retention-time window, in ascending id order.
func (t *Table) FragmentIDsInRTRange(rtMin, rtMax float64) []frame.FrameID {
	return t.idsInRTRangeByType(rtMin, rtMax, t.fragments)
}

func (t *Table) idsInRTRangeByType(rtMin, rtMax float64, typed *roaring.Bitmap) []frame.FrameID {
	selected := roaring.New()
	for _, id := range t.IDsInRTRange(rtMin, rtMax) {
		selected.Add(uint32(id))
	}
	selected.And(typed)

	return bitmapIDs(selected)
}

func bitmapIDs(b *roaring.Bitmap) []frame.FrameID {
	ids := make([]frame.FrameID, 0, b.GetCardinality())
	it := b.Iterator()
	for it.HasNext() {
		ids = append(ids, frame.FrameID(it.Next()))
	}

	return ids
}
