package metadata

import (
	"context"
	"database/sql"
	"fmt"

	// Pure-Go SQLite driver; analysis.tdf is a SQLite database.
	_ "modernc.org/sqlite"
)

// DefaultMetadataFile is the metadata database's conventional file name
// inside an experiment directory.
const DefaultMetadataFile = "analysis.tdf"

// DB is an open analysis.tdf metadata database. Besides loading the frame
// table it exposes the instrument's precursor selection tables as read-only
// pass-through queries, untouched by the numeric core.
type DB struct {
	db *sql.DB
}

// Open opens the metadata database at path (the analysis.tdf file itself,
// not the experiment directory).
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open metadata db %q: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open metadata db %q: %w", path, err)
	}

	return &DB{db: db}, nil
}

// Frames loads the complete frame metadata table.
func (d *DB) Frames(ctx context.Context) (*Table, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT Id, Time, MsMsType, NumScans FROM Frames ORDER BY Id`)
	if err != nil {
		return nil, fmt.Errorf("query frames: %w", err)
	}
	defer rows.Close()

	var metas []FrameMeta
	for rows.Next() {
		var m FrameMeta
		if err := rows.Scan(&m.ID, &m.Time, &m.MsMsType, &m.NumScans); err != nil {
			return nil, fmt.Errorf("scan frame row: %w", err)
		}
		metas = append(metas, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate frame rows: %w", err)
	}

	return NewTable(metas), nil
}

// SelectedPrecursors returns the instrument's Precursors table: the peaks
// chosen and fragmented during the acquisition, keyed by frame.
func (d *DB) SelectedPrecursors(ctx context.Context) (RecordSet, error) {
	return d.queryRecords(ctx, `SELECT * FROM Precursors`)
}

// PrecursorByID returns the Precursors row with the given id.
func (d *DB) PrecursorByID(ctx context.Context, id int64) (RecordSet, error) {
	return d.queryRecords(ctx, `SELECT * FROM Precursors WHERE Id = ?`, id)
}

// Close closes the underlying database.
func (d *DB) Close() error {
	return d.db.Close()
}

// RecordSet is a generic read-only query result: column names plus rows of
// driver values.
type RecordSet struct {
	Columns []string
	Rows    [][]any
}

// Len returns the number of rows.
func (r RecordSet) Len() int {
	return len(r.Rows)
}

func (d *DB) queryRecords(ctx context.Context, query string, args ...any) (RecordSet, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return RecordSet{}, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return RecordSet{}, fmt.Errorf("read columns: %w", err)
	}

	out := RecordSet{Columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return RecordSet{}, fmt.Errorf("scan record row: %w", err)
		}
		out.Rows = append(out.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return RecordSet{}, fmt.Errorf("iterate record rows: %w", err)
	}

	return out, nil
}
