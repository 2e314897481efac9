// Package store keeps a SQLite history of check runs and their row results.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/hyperifyio/textcheck/internal/report"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database connection.
type DB struct {
	db *sql.DB
	mu sync.Mutex // serializes writes
}

// Run is one invocation over a workbook.
type Run struct {
	ID         string
	Input      string
	StartedAt  time.Time
	FinishedAt time.Time
	Stats      report.Stats
}

// Open opens or creates the history database.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}
	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}
	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		input TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		finished_at INTEGER,
		total INTEGER DEFAULT 0,
		exact INTEGER DEFAULT 0,
		fuzzy INTEGER DEFAULT 0,
		not_found INTEGER DEFAULT 0,
		errors INTEGER DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		sheet TEXT NOT NULL,
		row_no INTEGER NOT NULL,
		line_no INTEGER NOT NULL,
		url TEXT,
		text TEXT,
		outcome TEXT NOT NULL,
		ratio REAL,
		level TEXT,
		method TEXT,
		before_text TEXT,
		found_text TEXT,
		after_text TEXT,
		missing TEXT,
		error TEXT,
		checked_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_results_run
		ON results(run_id);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	return nil
}

// BeginRun records the start of a run.
func (d *DB) BeginRun(ctx context.Context, r Run) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if r.StartedAt.IsZero() {
		r.StartedAt = time.Now()
	}
	_, err := d.db.ExecContext(ctx,
		"INSERT INTO runs (id, input, started_at) VALUES (?, ?, ?)",
		r.ID, r.Input, r.StartedAt.Unix())
	if err != nil {
		return fmt.Errorf("begin run: %w", err)
	}
	return nil
}

// FinishRun stores the final totals of a run.
func (d *DB) FinishRun(ctx context.Context, id string, s report.Stats) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	res, err := d.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, total = ?, exact = ?, fuzzy = ?, not_found = ?, errors = ?
		WHERE id = ?`,
		time.Now().Unix(), s.Total, s.Exact, s.Fuzzy, s.NotFound, s.Errors, id)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("finish run: unknown run %q", id)
	}
	return nil
}

// AddResult stores one row result.
func (d *DB) AddResult(ctx context.Context, r report.Record) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	checked := r.CheckedAt
	if checked.IsZero() {
		checked = time.Now()
	}
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO results (run_id, sheet, row_no, line_no, url, text, outcome, ratio, level, method,
			before_text, found_text, after_text, missing, error, checked_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Sheet, r.Row, r.Line, r.URL, r.Text, r.Outcome, r.Ratio, r.Level, r.Method,
		r.Before, r.Found, r.After, strings.Join(r.Missing, " "), r.Error, checked.Unix())
	if err != nil {
		return fmt.Errorf("add result: %w", err)
	}
	return nil
}

// RecentRuns returns up to n runs, newest first.
func (d *DB) RecentRuns(ctx context.Context, n int) ([]Run, error) {
	if n <= 0 {
		n = 10
	}
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, input, started_at, COALESCE(finished_at, 0), total, exact, fuzzy, not_found, errors
		FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var started, finished int64
		if err := rows.Scan(&r.ID, &r.Input, &started, &finished,
			&r.Stats.Total, &r.Stats.Exact, &r.Stats.Fuzzy, &r.Stats.NotFound, &r.Stats.Errors); err != nil {
			return nil, err
		}
		r.StartedAt = time.Unix(started, 0)
		if finished > 0 {
			r.FinishedAt = time.Unix(finished, 0)
		}
		r.Stats.Sheet = "All"
		out = append(out, r)
	}
	return out, rows.Err()
}

// Results returns a run's rows in insertion order.
func (d *DB) Results(ctx context.Context, runID string) ([]report.Record, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT run_id, sheet, row_no, line_no, COALESCE(url, ''), COALESCE(text, ''), outcome, COALESCE(ratio, 0),
			COALESCE(level, ''), COALESCE(method, ''), COALESCE(before_text, ''), COALESCE(found_text, ''),
			COALESCE(after_text, ''), COALESCE(missing, ''), COALESCE(error, ''), checked_at
		FROM results WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []report.Record
	for rows.Next() {
		var r report.Record
		var missing string
		var checked int64
		if err := rows.Scan(&r.RunID, &r.Sheet, &r.Row, &r.Line, &r.URL, &r.Text, &r.Outcome, &r.Ratio,
			&r.Level, &r.Method, &r.Before, &r.Found, &r.After, &missing, &r.Error, &checked); err != nil {
			return nil, err
		}
		r.Missing = strings.Fields(missing)
		r.CheckedAt = time.Unix(checked, 0).UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

// Sink returns a report.Sink that stores records in d. Closing it leaves d open.
func (d *DB) Sink(ctx context.Context) report.Sink {
	return dbSink{ctx: ctx, db: d}
}

type dbSink struct {
	ctx context.Context
	db  *DB
}

func (s dbSink) Write(r report.Record) error { return s.db.AddResult(s.ctx, r) }

func (s dbSink) Close() error { return nil }
