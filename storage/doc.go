// Package storage reads and writes the binary frame container of an
// experiment: one compressed columnar block per acquisition frame plus a
// trailing frame-id index for random access.
//
// The container is read through a blobstore.Blob, so the same file works
// memory-mapped from local disk, from memory in tests, or from object
// storage via ranged reads. Blocks are independently compressed (zstd by
// default, LZ4 selectable) and carry a CRC32 so corruption is detected at
// read time and reported per frame.
package storage
