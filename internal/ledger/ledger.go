// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger persists the outcome of each ingestion run in a SQLite
// database so that operators can audit what was searched, selected and
// acquired without trawling per-run summary files.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/sar-ingest/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "ingest.db"
)

// Store manages the ingestion ledger SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the ledger database at dataDir/index/ingest.db,
// creating the schema if it does not exist.
func NewStore(dataDir string) (*Store, error) {
	dbDir := filepath.Join(dataDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			executed_at TEXT NOT NULL,
			days_back INTEGER NOT NULL,
			window_start TEXT,
			window_end TEXT,
			asf_found INTEGER,
			asf_selected INTEGER,
			sh_found INTEGER,
			sh_selected INTEGER,
			search_errors INTEGER,
			total_files INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS outcomes (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id),
			granule TEXT NOT NULL,
			stage TEXT NOT NULL,
			final_path TEXT,
			error TEXT,
			skipped INTEGER NOT NULL DEFAULT 0,
			recorded_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outcomes_run_id ON outcomes(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_outcomes_granule ON outcomes(granule)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RecordRun inserts a run row and one outcome row per acquired scene in a
// single transaction. It returns the run's ledger id.
func (s *Store) RecordRun(ctx context.Context, summary types.RunSummary) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (executed_at, days_back, window_start, window_end,
			asf_found, asf_selected, sh_found, sh_selected, search_errors, total_files)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.ExecutionTime.UTC().Format(time.RFC3339),
		summary.TargetDaysBack,
		summary.TimeRange.Start.UTC().Format(time.RFC3339),
		summary.TimeRange.End.UTC().Format(time.RFC3339),
		summary.ASF.Found, summary.ASF.Selected,
		summary.SentinelHub.Found, summary.SentinelHub.Selected,
		len(summary.SearchErrors), summary.TotalFiles,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO outcomes (run_id, granule, stage, final_path, error, skipped, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing outcome insert: %w", err)
	}
	defer stmt.Close()

	recordedAt := summary.ExecutionTime.UTC().Format(time.RFC3339)
	for _, o := range summary.Outcomes {
		skipped := 0
		if o.Skipped {
			skipped = 1
		}
		if _, err := stmt.ExecContext(ctx,
			runID, o.GranuleName, string(o.StageReached), o.FinalPath, o.Error, skipped, recordedAt,
		); err != nil {
			return 0, fmt.Errorf("inserting outcome %s: %w", o.GranuleName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// RunRow is one row of the runs table, times formatted as RFC 3339.
type RunRow struct {
	ID           int64
	ExecutedAt   string
	DaysBack     int
	WindowStart  string
	WindowEnd    string
	ASFFound     int
	ASFSelected  int
	SHFound      int
	SHSelected   int
	SearchErrors int
	TotalFiles   int
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]RunRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, executed_at, days_back, window_start, window_end,
			asf_found, asf_selected, sh_found, sh_selected, search_errors, total_files
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []RunRow
	for rows.Next() {
		var r RunRow
		if err := rows.Scan(&r.ID, &r.ExecutedAt, &r.DaysBack, &r.WindowStart, &r.WindowEnd,
			&r.ASFFound, &r.ASFSelected, &r.SHFound, &r.SHSelected, &r.SearchErrors, &r.TotalFiles,
		); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// OutcomeRow is one row of the outcomes table.
type OutcomeRow struct {
	RunID      int64
	Granule    string
	Stage      string
	FinalPath  string
	Error      string
	Skipped    bool
	RecordedAt string
}

// RecentOutcomes returns up to limit outcome rows, newest first.
func (s *Store) RecentOutcomes(ctx context.Context, limit int) ([]OutcomeRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, granule, stage, final_path, error, skipped, recorded_at
		 FROM outcomes ORDER BY rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying outcomes: %w", err)
	}
	defer rows.Close()

	var out []OutcomeRow
	for rows.Next() {
		var (
			o       OutcomeRow
			skipped int
		)
		if err := rows.Scan(&o.RunID, &o.Granule, &o.Stage, &o.FinalPath, &o.Error, &skipped, &o.RecordedAt); err != nil {
			return nil, fmt.Errorf("scanning outcome: %w", err)
		}
		o.Skipped = skipped != 0
		out = append(out, o)
	}
	return out, rows.Err()
}
