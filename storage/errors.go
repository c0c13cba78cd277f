package storage

import (
	"fmt"

	"github.com/mzkit/timsgo/frame"
)

// ErrFrameNotFound indicates a frame id absent from the container index.
type ErrFrameNotFound struct {
	FrameID frame.FrameID
}

func (e *ErrFrameNotFound) Error() string {
	return fmt.Sprintf("frame %d not found in container", e.FrameID)
}

// ErrCorruptFrame indicates a frame block that failed validation: checksum
// mismatch, truncated payload or uneven event columns.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrCorruptFrame struct {
	FrameID frame.FrameID
	Reason  string
	cause   error
}

func (e *ErrCorruptFrame) Error() string {
	return fmt.Sprintf("frame %d is corrupt: %s", e.FrameID, e.Reason)
}

func (e *ErrCorruptFrame) Unwrap() error { return e.cause }
