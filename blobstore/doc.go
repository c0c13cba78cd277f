// Package blobstore abstracts byte-level access to the files of an
// experiment. A BlobStore hands out read-only Blobs with random access, so
// the same frame container can be read from local disk (memory-mapped), from
// memory in tests, or from object storage (see the minio and s3 subpackages)
// without the storage layer knowing the difference.
package blobstore
