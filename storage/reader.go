package storage

import (
	"context"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"math"
	"sort"

	"github.com/mzkit/timsgo/blobstore"
	"github.com/mzkit/timsgo/frame"
)

// Reader serves random-access frame retrieval from a container blob. The
// index is loaded eagerly at open; frame reads are independent and safe for
// concurrent use.
type Reader struct {
	blob  blobstore.Blob
	index map[frame.FrameID]indexRecord
}

// Open opens the named container in the given store and loads its index.
func Open(ctx context.Context, store blobstore.BlobStore, name string) (*Reader, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("open container %q: %w", name, err)
	}

	r, err := NewReader(blob)
	if err != nil {
		blob.Close()
		return nil, fmt.Errorf("open container %q: %w", name, err)
	}

	return r, nil
}

// NewReader validates the container header and trailer of blob and loads the
// frame index. The Reader takes ownership of the blob.
func NewReader(blob blobstore.Blob) (*Reader, error) {
	size := blob.Size()
	if size < headerSize+trailerSize {
		return nil, ErrTruncated
	}

	header := make([]byte, headerSize)
	if _, err := blob.ReadAt(header, 0); err != nil {
		return nil, err
	}
	if binary.LittleEndian.Uint32(header[0:4]) != MagicNumber {
		return nil, ErrInvalidMagic
	}
	if binary.LittleEndian.Uint32(header[4:8]) != Version {
		return nil, ErrInvalidVersion
	}

	trailer := make([]byte, trailerSize)
	if _, err := blob.ReadAt(trailer, size-trailerSize); err != nil {
		return nil, err
	}
	if binary.LittleEndian.Uint32(trailer[12:16]) != MagicNumber {
		return nil, ErrInvalidMagic
	}

	indexOffset := int64(binary.LittleEndian.Uint64(trailer[0:8]))
	indexLen := size - trailerSize - indexOffset
	if indexOffset < headerSize || indexLen < 0 || indexLen%indexEntry != 0 {
		return nil, ErrTruncated
	}

	raw := make([]byte, indexLen)
	if _, err := blob.ReadAt(raw, indexOffset); err != nil {
		return nil, err
	}
	if crc32.ChecksumIEEE(raw) != binary.LittleEndian.Uint32(trailer[8:12]) {
		return nil, ErrIndexChecksum
	}

	index := make(map[frame.FrameID]indexRecord, indexLen/indexEntry)
	for off := int64(0); off < indexLen; off += indexEntry {
		entry := raw[off : off+indexEntry]
		id := frame.FrameID(binary.LittleEndian.Uint32(entry[0:4]))
		index[id] = indexRecord{
			offset: int64(binary.LittleEndian.Uint64(entry[4:12])),
			length: binary.LittleEndian.Uint32(entry[12:16]),
		}
	}

	return &Reader{blob: blob, index: index}, nil
}

// Contains reports whether the container holds the given frame.
func (r *Reader) Contains(id frame.FrameID) bool {
	_, ok := r.index[id]
	return ok
}

// FrameIDs returns all frame ids in the container, in ascending order.
func (r *Reader) FrameIDs() []frame.FrameID {
	ids := make([]frame.FrameID, 0, len(r.index))
	for id := range r.index {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

// ReadFrame fetches one frame. The returned Frame owns its columns and holds
// no reference into the reader. An id absent from the index fails with
// ErrFrameNotFound, a block failing validation with ErrCorruptFrame.
func (r *Reader) ReadFrame(ctx context.Context, id frame.FrameID) (frame.Frame, error) {
	if err := ctx.Err(); err != nil {
		return frame.Frame{}, err
	}

	record, ok := r.index[id]
	if !ok {
		return frame.Frame{}, &ErrFrameNotFound{FrameID: id}
	}

	block := make([]byte, record.length)
	if _, err := r.blob.ReadAt(block, record.offset); err != nil {
		return frame.Frame{}, &ErrCorruptFrame{FrameID: id, Reason: "short block read", cause: err}
	}
	if len(block) < blockSize {
		return frame.Frame{}, &ErrCorruptFrame{FrameID: id, Reason: "block shorter than header"}
	}

	blockID := frame.FrameID(binary.LittleEndian.Uint32(block[0:4]))
	if blockID != id {
		return frame.Frame{}, &ErrCorruptFrame{FrameID: id, Reason: fmt.Sprintf("index points at block of frame %d", blockID)}
	}

	eventCount := int(binary.LittleEndian.Uint32(block[4:8]))
	hasTOF := block[8] == 1
	codec := Compression(block[9])
	uncompressedSize := int(binary.LittleEndian.Uint32(block[12:16]))
	compressedSize := int(binary.LittleEndian.Uint32(block[16:20]))
	checksum := binary.LittleEndian.Uint32(block[20:24])

	if blockSize+compressedSize != len(block) {
		return frame.Frame{}, &ErrCorruptFrame{FrameID: id, Reason: "payload size mismatch"}
	}

	payload := block[blockSize:]
	if crc32.ChecksumIEEE(payload) != checksum {
		return frame.Frame{}, &ErrCorruptFrame{FrameID: id, Reason: "payload checksum mismatch"}
	}

	raw, err := decompress(payload, codec, uncompressedSize)
	if err != nil {
		return frame.Frame{}, &ErrCorruptFrame{FrameID: id, Reason: "decompress failed", cause: err}
	}

	f, err := decodeColumns(id, raw, eventCount, hasTOF)
	if err != nil {
		return frame.Frame{}, &ErrCorruptFrame{FrameID: id, Reason: "invalid event columns", cause: err}
	}

	return f, nil
}

// Close releases the underlying blob.
func (r *Reader) Close() error {
	return r.blob.Close()
}

func decodeColumns(id frame.FrameID, raw []byte, eventCount int, hasTOF bool) (frame.Frame, error) {
	size := eventCount * (4 + 8 + 8 + 8)
	if hasTOF {
		size += eventCount * 4
	}
	if len(raw) != size {
		return frame.Frame{}, fmt.Errorf("column block is %d bytes, want %d", len(raw), size)
	}

	scans := make([]frame.ScanID, eventCount)
	mz := make([]float64, eventCount)
	intensities := make([]float64, eventCount)
	mobility := make([]float64, eventCount)
	var tof []int32
	if hasTOF {
		tof = make([]int32, eventCount)
	}

	off := 0
	for i := range scans {
		scans[i] = frame.ScanID(binary.LittleEndian.Uint32(raw[off:]))
		off += 4
	}
	for i := range mz {
		mz[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[off:]))
		off += 8
	}
	for i := range intensities {
		intensities[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[off:]))
		off += 8
	}
	for i := range mobility {
		mobility[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[off:]))
		off += 8
	}
	if hasTOF {
		for i := range tof {
			tof[i] = int32(binary.LittleEndian.Uint32(raw[off:]))
			off += 4
		}
	}

	return frame.New(id, scans, mz, intensities, mobility, tof)
}
