// Package history persists one row per experiment run so repeated cdpa
// invocations can be queried and compared later.
//
// Adapted from the teacher's internal/store/sqlite.go: the same
// schema-migration-on-Open pattern with github.com/mattn/go-sqlite3,
// narrowed from the teacher's multi-table event/device/weave schema
// down to a single runs table recording each Run call's parameters and
// aggregate rates.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	started_at       INTEGER NOT NULL,
	bit_count        INTEGER NOT NULL,
	share_count      INTEGER NOT NULL,
	trace_count      INTEGER NOT NULL,
	noise            REAL NOT NULL,
	experiment_count INTEGER NOT NULL,
	seed             INTEGER,
	result_rate      REAL NOT NULL,
	lsb_rate         REAL NOT NULL,
	bit_rate         REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
CREATE INDEX IF NOT EXISTS idx_runs_params ON runs(bit_count, share_count, noise);
`

// Store is the experiment-accounting database.
type Store struct {
	db *sql.DB
}

// Run is one recorded experiment-run row.
type Run struct {
	ID              int64
	StartedAt       time.Time
	BitCount        int
	ShareCount      int
	TraceCount      int
	Noise           float64
	ExperimentCount int
	Seed            *int64
	ResultRate      float64
	LSBRate         float64
	BitRate         float64
}

// Open opens or creates the SQLite database at path and applies the
// schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("history: create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record inserts a completed run and returns its assigned ID.
func (s *Store) Record(r Run) (int64, error) {
	result, err := s.db.Exec(`
		INSERT INTO runs (started_at, bit_count, share_count, trace_count, noise, experiment_count, seed, result_rate, lsb_rate, bit_rate)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.StartedAt.Unix(), r.BitCount, r.ShareCount, r.TraceCount, r.Noise, r.ExperimentCount, r.Seed, r.ResultRate, r.LSBRate, r.BitRate,
	)
	if err != nil {
		return 0, fmt.Errorf("history: insert run: %w", err)
	}
	return result.LastInsertId()
}

// Recent returns the limit most recent runs, newest first.
func (s *Store) Recent(limit int) ([]Run, error) {
	rows, err := s.db.Query(`
		SELECT id, started_at, bit_count, share_count, trace_count, noise, experiment_count, seed, result_rate, lsb_rate, bit_rate
		FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: query recent: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var startedAt int64
		if err := rows.Scan(&r.ID, &startedAt, &r.BitCount, &r.ShareCount, &r.TraceCount, &r.Noise, &r.ExperimentCount, &r.Seed, &r.ResultRate, &r.LSBRate, &r.BitRate); err != nil {
			return nil, fmt.Errorf("history: scan run: %w", err)
		}
		r.StartedAt = time.Unix(startedAt, 0).UTC()
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// BestForParams returns the highest result_rate recorded for a given
// (bit_count, share_count, noise) combination, or ok=false if none.
func (s *Store) BestForParams(bitCount, shareCount int, noise float64) (rate float64, ok bool, err error) {
	row := s.db.QueryRow(`
		SELECT MAX(result_rate) FROM runs WHERE bit_count = ? AND share_count = ? AND noise = ?`,
		bitCount, shareCount, noise)
	var best sql.NullFloat64
	if err := row.Scan(&best); err != nil {
		return 0, false, fmt.Errorf("history: query best: %w", err)
	}
	if !best.Valid {
		return 0, false, nil
	}
	return best.Float64, true, nil
}
