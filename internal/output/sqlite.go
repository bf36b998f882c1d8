package output

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/coquinn7/UserAssist/internal/userassist"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    hive_path TEXT NOT NULL,
    hive_name TEXT,
    parsed_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS records (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL,
    seq INTEGER NOT NULL,
    program TEXT NOT NULL,
    source TEXT,
    raw_name TEXT,
    layout TEXT NOT NULL,
    run_count INTEGER,
    focus_count INTEGER,
    focus_time_ms INTEGER,
    focus_time TEXT,
    last_executed TIMESTAMP,
    FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_records_run ON records(run_id, seq);
CREATE INDEX IF NOT EXISTS idx_records_last_executed ON records(last_executed);
`

// Store is a SQLite database of decoded UserAssist records.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) the database at path.
// Use ":memory:" for an in-memory database.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// InsertReport stores meta as a new run together with every record that
// has metrics, in report order. It returns the run id.
func (s *Store) InsertReport(rep userassist.Report, meta userassist.Meta) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO runs (hive_path, hive_name, parsed_at) VALUES (?, ?, ?)`,
		meta.HivePath, meta.HiveName, meta.ParsedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO records
        (run_id, seq, program, source, raw_name, layout, run_count, focus_count, focus_time_ms, focus_time, last_executed)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range rep.Rows() {
		var (
			runCount    sql.NullInt64
			focusCount  sql.NullInt64
			focusMS     sql.NullInt64
			focusText   sql.NullString
			lastExecute sql.NullTime
		)
		if rec.RunCount != nil {
			runCount = sql.NullInt64{Int64: *rec.RunCount, Valid: true}
		}
		if rec.FocusCount != nil {
			focusCount = sql.NullInt64{Int64: int64(*rec.FocusCount), Valid: true}
		}
		if rec.FocusTime != nil {
			focusMS = sql.NullInt64{Int64: rec.FocusTime.Milliseconds(), Valid: true}
			focusText = sql.NullString{String: rec.FocusTimeText(), Valid: true}
		}
		if rec.LastExecuted != nil {
			lastExecute = sql.NullTime{Time: *rec.LastExecuted, Valid: true}
		}
		if _, err := stmt.Exec(runID, i, rec.Program, rec.Source, rec.RawName, rec.Layout.String(),
			runCount, focusCount, focusMS, focusText, lastExecute); err != nil {
			return 0, fmt.Errorf("failed to insert record %q: %w", rec.Program, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	return runID, nil
}

// StoredRecord is a row read back from the records table.
type StoredRecord struct {
	Seq        int
	Program    string
	Source     string
	Layout     string
	RunCount   sql.NullInt64
	FocusCount sql.NullInt64
	FocusTime  sql.NullString
	LastExec   sql.NullTime
}

// Records returns the records of a run ordered by seq.
func (s *Store) Records(runID int64) ([]StoredRecord, error) {
	rows, err := s.db.Query(`SELECT seq, program, source, layout, run_count, focus_count, focus_time, last_executed
        FROM records WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var out []StoredRecord
	for rows.Next() {
		var r StoredRecord
		if err := rows.Scan(&r.Seq, &r.Program, &r.Source, &r.Layout, &r.RunCount, &r.FocusCount, &r.FocusTime, &r.LastExec); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
