package timsgo

import (
	"golang.org/x/time/rate"

	"github.com/mzkit/timsgo/blobstore"
)

const defaultFetchConcurrency = 4

// Options configures a DataHandle. Use the With* helpers.
type Options struct {
	// Logger receives operational logging. Defaults to a no-op logger.
	Logger *Logger

	// Store overrides how the experiment's binary frame container is read.
	// Defaults to a memory-mapped local store rooted at the experiment
	// directory.
	Store blobstore.BlobStore

	// DataFile is the container's name inside the store.
	// Defaults to storage.DefaultDataFile.
	DataFile string

	// FetchConcurrency bounds how many frames a slice request fetches in
	// parallel. Frames are independent values, so fetches are safe to run
	// concurrently; results are assembled in frame-id order regardless of
	// completion order.
	FetchConcurrency int

	// FetchRate throttles storage fetches, in frames per second. Zero means
	// unlimited. Useful against shared object storage.
	FetchRate rate.Limit
}

// Option mutates Options.
type Option func(*Options)

// WithLogger sets the operational logger.
func WithLogger(logger *Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithBlobStore reads the frame container through the given store instead of
// the local experiment directory, e.g. a minio or s3 store.
func WithBlobStore(store blobstore.BlobStore) Option {
	return func(o *Options) {
		o.Store = store
	}
}

// WithDataFile overrides the frame container's file name.
func WithDataFile(name string) Option {
	return func(o *Options) {
		o.DataFile = name
	}
}

// WithFetchConcurrency bounds parallel frame fetches for slice requests.
// Values below 1 are treated as 1.
func WithFetchConcurrency(n int) Option {
	return func(o *Options) {
		if n < 1 {
			n = 1
		}
		o.FetchConcurrency = n
	}
}

// WithFetchRateLimit throttles storage fetches to the given frames per
// second.
func WithFetchRateLimit(framesPerSecond float64) Option {
	return func(o *Options) {
		o.FetchRate = rate.Limit(framesPerSecond)
	}
}
