package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rydnr/jdfix/internal/usecase/fix"
)

// Store persists fix-run history using SQLite.
type Store struct {
	db *sql.DB
}

// NewStore creates a new SQLite store at the given path.
// Use ":memory:" for in-memory database (useful for testing).
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Store{db: db}

	if err := s.createSchema(); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return s, nil
}

// createSchema creates all tables and indexes if they don't exist.
func (s *Store) createSchema() error {
	schema := `
	-- Stores metadata about each fix run
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		timestamp INTEGER NOT NULL,
		script TEXT NOT NULL,
		issues_found INTEGER NOT NULL,
		attempted INTEGER NOT NULL,
		applied INTEGER NOT NULL,
		remaining INTEGER NOT NULL
	);

	-- Individual fix outcomes from each run
	CREATE TABLE IF NOT EXISTS fixes (
		fix_id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		issue_hash TEXT NOT NULL,
		file TEXT NOT NULL,
		line INTEGER NOT NULL,
		message TEXT NOT NULL,
		strategy TEXT NOT NULL,
		applied INTEGER NOT NULL DEFAULT 0,
		reason TEXT,
		FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
	);

	-- Indexes for performance
	CREATE INDEX IF NOT EXISTS idx_fixes_run ON fixes(run_id);
	CREATE INDEX IF NOT EXISTS idx_fixes_hash ON fixes(issue_hash);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveRun stores a fix run record.
func (s *Store) SaveRun(ctx context.Context, run fix.StoreRun) error {
	query := `
		INSERT INTO runs (run_id, timestamp, script, issues_found, attempted, applied, remaining)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		run.RunID,
		run.Timestamp.Unix(),
		run.Script,
		run.IssuesFound,
		run.Attempted,
		run.Applied,
		run.Remaining,
	)

	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	return nil
}

// SaveFixes stores the fix outcomes of a run in a single transaction.
func (s *Store) SaveFixes(ctx context.Context, runID string, fixes []fix.StoreFix) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO fixes (run_id, issue_hash, file, line, message, strategy, applied, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, f := range fixes {
		applied := 0
		if f.Applied {
			applied = 1
		}

		if _, err := stmt.ExecContext(ctx,
			runID,
			f.IssueHash,
			f.File,
			f.Line,
			f.Message,
			f.Strategy,
			applied,
			f.Reason,
		); err != nil {
			return fmt.Errorf("failed to insert fix: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(ctx context.Context, runID string) (fix.StoreRun, error) {
	query := `
		SELECT run_id, timestamp, script, issues_found, attempted, applied, remaining
		FROM runs
		WHERE run_id = ?
	`

	var run fix.StoreRun
	var timestamp int64

	err := s.db.QueryRowContext(ctx, query, runID).Scan(
		&run.RunID,
		&timestamp,
		&run.Script,
		&run.IssuesFound,
		&run.Attempted,
		&run.Applied,
		&run.Remaining,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return fix.StoreRun{}, fmt.Errorf("run not found: %s", runID)
		}
		return fix.StoreRun{}, fmt.Errorf("failed to get run: %w", err)
	}

	run.Timestamp = time.Unix(timestamp, 0)
	return run, nil
}

// ListRuns retrieves the most recent runs, limited by the given count.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]fix.StoreRun, error) {
	query := `
		SELECT run_id, timestamp, script, issues_found, attempted, applied, remaining
		FROM runs
		ORDER BY timestamp DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []fix.StoreRun
	for rows.Next() {
		var run fix.StoreRun
		var timestamp int64

		if err := rows.Scan(
			&run.RunID,
			&timestamp,
			&run.Script,
			&run.IssuesFound,
			&run.Attempted,
			&run.Applied,
			&run.Remaining,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		run.Timestamp = time.Unix(timestamp, 0)
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

// GetFixesByRun retrieves all fix outcomes for a given run, in the order
// they were attempted.
func (s *Store) GetFixesByRun(ctx context.Context, runID string) ([]fix.StoreFix, error) {
	query := `
		SELECT issue_hash, file, line, message, strategy, applied, reason
		FROM fixes
		WHERE run_id = ?
		ORDER BY fix_id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get fixes by run: %w", err)
	}
	defer rows.Close()

	var fixes []fix.StoreFix
	for rows.Next() {
		var f fix.StoreFix
		var applied int

		if err := rows.Scan(
			&f.IssueHash,
			&f.File,
			&f.Line,
			&f.Message,
			&f.Strategy,
			&applied,
			&f.Reason,
		); err != nil {
			return nil, fmt.Errorf("failed to scan fix: %w", err)
		}

		f.Applied = applied == 1
		fixes = append(fixes, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fixes: %w", err)
	}

	return fixes, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
