package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/simscan/internal/model"
)

// ErrRunNotFound is returned when the requested run ID does not exist.
var ErrRunNotFound = errors.New("run not found")

// ResultDB provides SQLite-based storage for run history.
// It manages connection pooling and provides methods for saving and
// querying past runs.
type ResultDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures ResultDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance. Recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a ResultDB in the specified directory.
// If CreateIfNotExists is true, the directory and database file are
// created; otherwise a missing database is an error.
func Open(dbDir string, opts Options) (*ResultDB, error) {
	dbPath := filepath.Join(dbDir, "simscan.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to forbid creating new files and
	// mode=rwc to allow it.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports only one writer; multiple readers gain little for
	// this workload.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &ResultDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return rdb, nil
}

// Close closes the database connection.
func (rdb *ResultDB) Close() error {
	return rdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (rdb *ResultDB) createTables() error {
	schema := `
	-- One row per scan invocation
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		corpus_dir TEXT NOT NULL,
		target_file TEXT NOT NULL,
		ngram INTEGER NOT NULL,
		window INTEGER NOT NULL,
		pair_count INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);
	CREATE INDEX IF NOT EXISTS idx_runs_target ON runs(target_file);

	-- Pair results belonging to a run, stored in sorted report order
	CREATE TABLE IF NOT EXISTS pair_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		file_a TEXT NOT NULL,
		file_b TEXT NOT NULL,
		score REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_pairs_run ON pair_results(run_id);

	-- Candidate files and their canonical-text digests per run
	CREATE TABLE IF NOT EXISTS candidates (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		path TEXT NOT NULL,
		digest TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_candidates_run ON candidates(run_id);
	`

	_, err := rdb.db.ExecContext(context.Background(), schema)
	return err
}

// RunRecord is the stored metadata of one run.
type RunRecord struct {
	ID         int64
	Timestamp  time.Time
	CorpusDir  string
	TargetFile string
	NGram      int
	Window     int
	PairCount  int
}

// SaveRun stores a report as a new run and returns its ID.
// The report should already be sorted; pairs are stored in slice order.
func (rdb *ResultDB) SaveRun(ctx context.Context, report *model.Report) (int64, error) {
	tx, err := rdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO runs (timestamp, corpus_dir, target_file, ngram, window, pair_count)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		report.GeneratedAt.UTC().Format(time.RFC3339),
		report.CorpusDir,
		report.TargetFile,
		report.NGram,
		report.Window,
		len(report.Pairs),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, p := range report.Pairs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO pair_results (run_id, file_a, file_b, score) VALUES (?, ?, ?, ?)`,
			runID, p.FileA, p.FileB, p.Score,
		); err != nil {
			return 0, fmt.Errorf("failed to insert pair result: %w", err)
		}
	}

	for _, c := range report.Candidates {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO candidates (run_id, path, digest) VALUES (?, ?, ?)`,
			runID, c.Path, c.Digest,
		); err != nil {
			return 0, fmt.Errorf("failed to insert candidate: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// ListRuns returns the most recent runs, newest first. A limit of zero or
// less means no limit.
func (rdb *ResultDB) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query := `SELECT id, timestamp, corpus_dir, target_file, ngram, window, pair_count
	          FROM runs ORDER BY timestamp DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := rdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		var ts string
		if err := rows.Scan(&r.ID, &ts, &r.CorpusDir, &r.TargetFile, &r.NGram, &r.Window, &r.PairCount); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.Timestamp = parseTimestamp(ts)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun loads one run with its pairs and candidates as a Report.
func (rdb *ResultDB) GetRun(ctx context.Context, runID int64) (*model.Report, error) {
	var report model.Report
	var ts string
	err := rdb.db.QueryRowContext(ctx,
		`SELECT timestamp, corpus_dir, target_file, ngram, window
		 FROM runs WHERE id = ?`, runID,
	).Scan(&ts, &report.CorpusDir, &report.TargetFile, &report.NGram, &report.Window)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run %d: %w", runID, err)
	}
	report.GeneratedAt = parseTimestamp(ts)

	rows, err := rdb.db.QueryContext(ctx,
		`SELECT file_a, file_b, score FROM pair_results WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pair results: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p model.PairResult
		if err := rows.Scan(&p.FileA, &p.FileB, &p.Score); err != nil {
			return nil, fmt.Errorf("failed to scan pair result: %w", err)
		}
		report.Pairs = append(report.Pairs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	crows, err := rdb.db.QueryContext(ctx,
		`SELECT path, digest FROM candidates WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer crows.Close()
	for crows.Next() {
		var c model.Candidate
		var digest sql.NullString
		if err := crows.Scan(&c.Path, &digest); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		c.Digest = digest.String
		report.Candidates = append(report.Candidates, c)
	}
	return &report, crows.Err()
}

// parseTimestamp parses stored timestamps, tolerating both RFC3339 (our
// inserts) and SQLite's CURRENT_TIMESTAMP format.
func parseTimestamp(ts string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, ts); err == nil {
			return t
		}
	}
	return time.Time{}
}
