package storage

import (
	"encoding/binary"
	"hash/crc32"
	"io"
	"math"
	"sort"

	"github.com/mzkit/timsgo/frame"
)

// Writer produces a frame container on an io.Writer. Frames are appended in
// call order; Close writes the index and trailer. A Writer is not safe for
// concurrent use.
type Writer struct {
	w      io.Writer
	codec  Compression
	offset int64
	index  map[frame.FrameID]indexRecord
	closed bool
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithCompression selects the block codec. The default is zstd.
func WithCompression(codec Compression) WriterOption {
	return func(w *Writer) {
		w.codec = codec
	}
}

// NewWriter starts a container on w and writes the file header.
func NewWriter(w io.Writer, opts ...WriterOption) (*Writer, error) {
	cw := &Writer{
		w:     w,
		codec: CompressionZstd,
		index: make(map[frame.FrameID]indexRecord),
	}
	for _, opt := range opts {
		opt(cw)
	}

	header := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(header[0:4], MagicNumber)
	binary.LittleEndian.PutUint32(header[4:8], Version)

	if err := cw.write(header); err != nil {
		return nil, err
	}

	return cw, nil
}

// Append writes one frame block. Each frame id may be written once.
func (cw *Writer) Append(f frame.Frame) error {
	if cw.closed {
		return ErrWriterClosed
	}
	if _, ok := cw.index[f.ID]; ok {
		return ErrDuplicateFrame
	}

	raw := encodeColumns(f)
	payload, codec, err := compress(raw, cw.codec)
	if err != nil {
		return err
	}

	hasTOF := uint8(0)
	if len(f.TOF) == f.Len() && f.Len() > 0 {
		hasTOF = 1
	}

	header := make([]byte, blockSize)
	binary.LittleEndian.PutUint32(header[0:4], uint32(f.ID))
	binary.LittleEndian.PutUint32(header[4:8], uint32(f.Len()))
	header[8] = hasTOF
	header[9] = uint8(codec)
	binary.LittleEndian.PutUint32(header[12:16], uint32(len(raw)))
	binary.LittleEndian.PutUint32(header[16:20], uint32(len(payload)))
	binary.LittleEndian.PutUint32(header[20:24], crc32.ChecksumIEEE(payload))

	record := indexRecord{offset: cw.offset, length: uint32(blockSize + len(payload))}

	if err := cw.write(header); err != nil {
		return err
	}
	if err := cw.write(payload); err != nil {
		return err
	}
	cw.index[f.ID] = record

	return nil
}

// Close writes the index and trailer. The underlying writer is not closed.
func (cw *Writer) Close() error {
	if cw.closed {
		return ErrWriterClosed
	}
	cw.closed = true

	ids := make([]frame.FrameID, 0, len(cw.index))
	for id := range cw.index {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	indexOffset := cw.offset
	buf := make([]byte, 0, len(ids)*indexEntry+trailerSize)
	for _, id := range ids {
		record := cw.index[id]
		entry := make([]byte, indexEntry)
		binary.LittleEndian.PutUint32(entry[0:4], uint32(id))
		binary.LittleEndian.PutUint64(entry[4:12], uint64(record.offset))
		binary.LittleEndian.PutUint32(entry[12:16], record.length)
		buf = append(buf, entry...)
	}

	trailer := make([]byte, trailerSize)
	binary.LittleEndian.PutUint64(trailer[0:8], uint64(indexOffset))
	binary.LittleEndian.PutUint32(trailer[8:12], crc32.ChecksumIEEE(buf))
	binary.LittleEndian.PutUint32(trailer[12:16], MagicNumber)
	buf = append(buf, trailer...)

	return cw.write(buf)
}

func (cw *Writer) write(p []byte) error {
	n, err := cw.w.Write(p)
	cw.offset += int64(n)

	return err
}

// encodeColumns lays out the event columns in fixed order as one
// little-endian byte block.
func encodeColumns(f frame.Frame) []byte {
	n := f.Len()
	hasTOF := len(f.TOF) == n && n > 0

	size := n * (4 + 8 + 8 + 8)
	if hasTOF {
		size += n * 4
	}
	buf := make([]byte, size)

	off := 0
	for _, scan := range f.Scans {
		binary.LittleEndian.PutUint32(buf[off:], uint32(scan))
		off += 4
	}
	for _, mz := range f.MZ {
		binary.LittleEndian.PutUint64(buf[off:], math.Float64bits(mz))
		off += 8
	}
	for _, intensity := range f.Intensities {
		binary.LittleEndian.PutUint64(buf[off:], math.Float64bits(intensity))
		off += 8
	}
	for _, mobility := range f.InvIonMobility {
		binary.LittleEndian.PutUint64(buf[off:], math.Float64bits(mobility))
		off += 8
	}
	if hasTOF {
		for _, tof := range f.TOF {
			binary.LittleEndian.PutUint32(buf[off:], uint32(tof))
			off += 4
		}
	}

	return buf
}
