// Package metadata provides the per-experiment frame metadata table: frame
// acquisition times, acquisition-type tags (precursor vs. fragment) and scan
// counts, loaded once from the experiment's analysis.tdf SQLite database and
// then queried as an immutable in-memory table.
//
// Precursor and fragment id sets are held as roaring bitmaps, which keeps
// the type partition compact for experiments with hundreds of thousands of
// frames.
package metadata
