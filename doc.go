// Package timsgo provides access to, and numeric processing of, raw
// ion-mobility-resolved mass-spectrometry data acquired by a timsTOF-style
// time-of-flight instrument.
//
// An experiment is a set of acquisition frames, each holding the ion events
// of one instrument sweep: a drift-time scan index, a mass-to-charge value,
// an inverse ion-mobility value and an intensity per event. timsgo is the
// raw-data layer over such an experiment: it retrieves frames from storage,
// filters them by scan/m-z/intensity ranges, reduces m/z resolution into
// fixed-decimal buckets, converts sparse per-scan spectra into sparse
// numeric vectors, and combines frames and spectra with well-defined merge
// semantics. It performs no peak picking or chemistry-aware interpretation.
//
// # Quick Start
//
//	ctx := context.Background()
//
//	dh, err := timsgo.Open(ctx, "/data/run42.d")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer dh.Close()
//
//	f, err := dh.GetFrame(ctx, 7)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	filtered, err := f.FilterRanged(50, 500, 400.0, 1200.0, 10)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	vectors := filtered.Vectorize(2) // one sparse vector per scan
//
// Retention-time windows resolve through the experiment metadata:
//
//	slice, err := dh.GetSliceRTRange(ctx, 120.0, 180.0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	points := slice.PrecursorPoints()
//
// # Data model
//
// All core types (Frame, MzSpectrum, MzVector, VectorizedFrame, Slice) are
// immutable values: every operation returns a new value, and nothing holds a
// reference back into the storage layer after retrieval. Concurrent callers
// working on distinct values need no locking.
//
// # Storage
//
// Experiments are read through a blobstore.BlobStore; local directories are
// memory-mapped, and the blobstore/minio and blobstore/s3 subpackages read
// experiments straight from object storage. Frame metadata comes from the
// experiment's analysis.tdf SQLite database.
package timsgo
