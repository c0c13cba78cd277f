package timsgo

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/mzkit/timsgo/blobstore"
	"github.com/mzkit/timsgo/frame"
	"github.com/mzkit/timsgo/metadata"
	"github.com/mzkit/timsgo/storage"
)

// DataHandle is the top-level facade over one experiment: it resolves frame
// ids and retention-time windows against the experiment metadata and
// dispatches retrieval requests to the binary frame storage.
//
// Construction is atomic: Open either yields a fully usable handle (metadata
// loaded, storage index read) or fails entirely. A DataHandle is safe for
// concurrent use; every retrieval copies the frame data out of storage, so
// returned values never alias handle state.
type DataHandle struct {
	path    string
	logger  *Logger
	db      *metadata.DB
	meta    *metadata.Table
	reader  *storage.Reader
	limiter *rate.Limiter
	fetch   int
}

// Open opens the experiment at path: its analysis.tdf metadata database and
// its binary frame container.
func Open(ctx context.Context, path string, opts ...Option) (*DataHandle, error) {
	options := Options{
		Logger:           NoopLogger(),
		DataFile:         storage.DefaultDataFile,
		FetchConcurrency: defaultFetchConcurrency,
	}
	for _, opt := range opts {
		opt(&options)
	}

	store := options.Store
	if store == nil {
		store = blobstore.NewLocalStore(path)
	}

	db, err := metadata.Open(filepath.Join(path, metadata.DefaultMetadataFile))
	if err != nil {
		return nil, fmt.Errorf("open experiment %q: %w", path, err)
	}

	meta, err := db.Frames(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open experiment %q: %w", path, err)
	}

	reader, err := storage.Open(ctx, store, options.DataFile)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open experiment %q: %w", path, translateError(err))
	}

	dh := &DataHandle{
		path:   path,
		logger: options.Logger,
		db:     db,
		meta:   meta,
		reader: reader,
		fetch:  options.FetchConcurrency,
	}
	if options.FetchRate > 0 {
		dh.limiter = rate.NewLimiter(options.FetchRate, 1)
	}

	dh.logger.Debug("experiment opened",
		"experiment", path,
		"frames", meta.Len(),
		"precursors", len(meta.PrecursorIDs()),
		"fragments", len(meta.FragmentIDs()),
	)

	return dh, nil
}

// Metadata returns the experiment's frame metadata table.
func (dh *DataHandle) Metadata() *metadata.Table {
	return dh.meta
}

// PrecursorFrameIDs returns all precursor frame ids, in ascending order.
func (dh *DataHandle) PrecursorFrameIDs() []frame.FrameID {
	return dh.meta.PrecursorIDs()
}

// FragmentFrameIDs returns all fragment frame ids, in ascending order.
func (dh *DataHandle) FragmentFrameIDs() []frame.FrameID {
	return dh.meta.FragmentIDs()
}

// GetFrame fetches one frame's raw data. An id absent from the experiment
// metadata or storage fails with ErrNotFound.
func (dh *DataHandle) GetFrame(ctx context.Context, id frame.FrameID) (frame.Frame, error) {
	if !dh.meta.Contains(id) {
		return frame.Frame{}, translateError(&metadata.ErrFrameNotFound{FrameID: id})
	}

	f, err := dh.fetchFrame(ctx, id)
	if err != nil {
		return frame.Frame{}, err
	}

	return f, nil
}

// GetSlice fetches the named precursor and fragment frames and assembles
// them into a Slice. The call is all-or-nothing: any missing id fails the
// whole request with ErrNotFound naming the id. Frames are fetched
// concurrently and each partition is assembled in ascending frame-id order,
// so the result is independent of fetch completion order.
func (dh *DataHandle) GetSlice(ctx context.Context, precursorIDs, fragmentIDs []frame.FrameID) (frame.Slice, error) {
	for _, id := range append(append([]frame.FrameID(nil), precursorIDs...), fragmentIDs...) {
		if !dh.meta.Contains(id) {
			return frame.Slice{}, translateError(&metadata.ErrFrameNotFound{FrameID: id})
		}
	}

	precursors, err := dh.fetchFrames(ctx, precursorIDs)
	if err != nil {
		return frame.Slice{}, err
	}
	fragments, err := dh.fetchFrames(ctx, fragmentIDs)
	if err != nil {
		return frame.Slice{}, err
	}

	dh.logger.Debug("slice fetched",
		"experiment", dh.path,
		"precursors", len(precursors),
		"fragments", len(fragments),
	)

	return frame.Slice{Precursors: precursors, Fragments: fragments}, nil
}

// GetSliceRTRange resolves the inclusive retention-time window [rtMin,
// rtMax] seconds to frame ids via metadata and fetches the resulting slice.
// A window containing no frames yields a slice with empty partitions, not an
// error.
func (dh *DataHandle) GetSliceRTRange(ctx context.Context, rtMin, rtMax float64) (frame.Slice, error) {
	precursorIDs := dh.meta.PrecursorIDsInRTRange(rtMin, rtMax)
	fragmentIDs := dh.meta.FragmentIDsInRTRange(rtMin, rtMax)

	dh.logger.Debug("rt window resolved",
		"experiment", dh.path,
		"rt_min", rtMin,
		"rt_max", rtMax,
		"precursors", len(precursorIDs),
		"fragments", len(fragmentIDs),
	)

	return dh.GetSlice(ctx, precursorIDs, fragmentIDs)
}

// FramesToRetentionTimes maps frame ids to acquisition times in seconds,
// positionally. Any id absent from the metadata fails with ErrNotFound; ids
// are never silently dropped.
func (dh *DataHandle) FramesToRetentionTimes(ids []frame.FrameID) ([]float64, error) {
	times, err := dh.meta.RetentionTimes(ids)
	if err != nil {
		return nil, translateError(err)
	}

	return times, nil
}

// SelectedPrecursors returns the instrument's precursor selection table, a
// read-only pass-through of the metadata database untouched by the numeric
// core.
func (dh *DataHandle) SelectedPrecursors(ctx context.Context) (metadata.RecordSet, error) {
	return dh.db.SelectedPrecursors(ctx)
}

// PrecursorByID returns one row of the precursor selection table.
func (dh *DataHandle) PrecursorByID(ctx context.Context, id int64) (metadata.RecordSet, error) {
	return dh.db.PrecursorByID(ctx, id)
}

// Close releases the storage reader and the metadata database. The handle
// must not be used afterwards; previously returned frames stay valid.
func (dh *DataHandle) Close() error {
	err := dh.reader.Close()
	if dbErr := dh.db.Close(); dbErr != nil && err == nil {
		err = dbErr
	}

	return err
}

func (dh *DataHandle) fetchFrame(ctx context.Context, id frame.FrameID) (frame.Frame, error) {
	if dh.limiter != nil {
		if err := dh.limiter.Wait(ctx); err != nil {
			return frame.Frame{}, err
		}
	}

	f, err := dh.reader.ReadFrame(ctx, id)
	if err != nil {
		return frame.Frame{}, translateError(err)
	}

	return f, nil
}

// fetchFrames retrieves many frames concurrently. Results are placed by
// index and then sorted by frame id, so slice content never depends on
// completion order.
func (dh *DataHandle) fetchFrames(ctx context.Context, ids []frame.FrameID) ([]frame.Frame, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	frames := make([]frame.Frame, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(dh.fetch)
	for i, id := range ids {
		g.Go(func() error {
			f, err := dh.fetchFrame(gctx, id)
			if err != nil {
				return err
			}
			frames[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(frames, func(i, j int) bool { return frames[i].ID < frames[j].ID })

	return frames, nil
}
