package storage

import "errors"

const (
	// MagicNumber identifies timsgo frame containers (ASCII: "TBN1").
	MagicNumber = 0x54424E31
	// Version is the current container format version.
	Version = 0x00010000

	// DefaultDataFile is the container's conventional file name inside an
	// experiment directory.
	DefaultDataFile = "analysis.tbin"

	headerSize  = 16
	blockSize   = 24
	indexEntry  = 16
	trailerSize = 16
)

var (
	ErrInvalidMagic   = errors.New("invalid magic number")
	ErrInvalidVersion = errors.New("unsupported container version")
	ErrTruncated      = errors.New("container is truncated")
	ErrIndexChecksum  = errors.New("container index checksum mismatch")
	ErrWriterClosed   = errors.New("writer is closed")
	ErrDuplicateFrame = errors.New("frame id already written")
)

// Container layout, all integers little-endian:
//
//	header   (16 B)  magic, version, reserved
//	blocks           one per frame, 24 B block header + compressed payload
//	index            frame id -> (offset, length), 16 B per entry
//	trailer  (16 B)  index offset, index CRC32, magic
//
// Block header fields:
//
//	frame id          uint32
//	event count       uint32
//	has TOF           uint8
//	compression       uint8
//	reserved          2 B
//	uncompressed size uint32
//	compressed size   uint32
//	payload CRC32     uint32
//
// The payload is the concatenation of the event columns in fixed order
// (scan uint32, m/z float64, intensity float64, inverse mobility float64,
// then TOF int32 if present), compressed as one unit.
type indexRecord struct {
	offset int64
	length uint32
}
