package frame

import (
	"fmt"
)

// ErrIdentityMismatch indicates an operation across values with incompatible
// identities, e.g. merging two frames with different frame ids.
type ErrIdentityMismatch struct {
	Op    string
	Left  FrameID
	Right FrameID
}

func (e *ErrIdentityMismatch) Error() string {
	return fmt.Sprintf("%s: identity mismatch: frame %d vs frame %d", e.Op, e.Left, e.Right)
}

// ErrResolutionMismatch indicates an operation across values built at
// different decimal resolutions where a single resolution is expected.
// Resolutions are never auto-reconciled.
type ErrResolutionMismatch struct {
	Op       string
	Expected int
	Actual   int
}

func (e *ErrResolutionMismatch) Error() string {
	return fmt.Sprintf("%s: resolution mismatch: expected %d, got %d", e.Op, e.Expected, e.Actual)
}

// ErrInvalidRange indicates filter bounds where min exceeds max.
type ErrInvalidRange struct {
	Field string
	Min   float64
	Max   float64
}

func (e *ErrInvalidRange) Error() string {
	return fmt.Sprintf("invalid %s range: min %g > max %g", e.Field, e.Min, e.Max)
}

// ErrUnevenColumns indicates event columns of unequal length. Frames are
// columnar; all event columns must have the same length.
type ErrUnevenColumns struct {
	FrameID FrameID
	Lengths []int
}

func (e *ErrUnevenColumns) Error() string {
	return fmt.Sprintf("frame %d: uneven event columns: lengths %v", e.FrameID, e.Lengths)
}
