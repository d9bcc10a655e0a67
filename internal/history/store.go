// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists run summaries in a SQLite database. The CSV
// export is the primary record of a conversion; the history store is the
// enduring, queryable audit trail behind the `molcsv history` command and
// the web front-end's runs listing.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/molcsv/pkg/types"
)

// Store manages the run-history SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at path, creating the schema
// if it does not exist.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
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
			id TEXT PRIMARY KEY,
			run_timestamp_utc TEXT NOT NULL,
			frontend TEXT NOT NULL,
			source_file TEXT NOT NULL,
			input_sha256 TEXT,
			dataset_id TEXT,
			operator TEXT,
			alcoa_enabled INTEGER NOT NULL,
			records_total INTEGER NOT NULL,
			records_converted INTEGER NOT NULL,
			records_failed INTEGER NOT NULL,
			output_rows INTEGER NOT NULL,
			csv_path TEXT,
			summary_path TEXT,
			bad_sdf_path TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(run_timestamp_utc)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Artifacts are the output paths produced by a run, kept alongside the
// summary so past exports stay findable.
type Artifacts struct {
	CSVPath     string
	SummaryPath string
	BadSDFPath  string
}

// RunRecord is one persisted run.
type RunRecord struct {
	ID               string `json:"run_id"`
	RunTimestampUTC  string `json:"run_timestamp_utc"`
	Frontend         string `json:"frontend"`
	SourceFile       string `json:"source_file"`
	InputSHA256      string `json:"input_sha256,omitempty"`
	DatasetID        string `json:"dataset_id,omitempty"`
	Operator         string `json:"operator,omitempty"`
	AlcoaEnabled     bool   `json:"alcoa_enabled"`
	RecordsTotal     int    `json:"records_total"`
	RecordsConverted int    `json:"records_converted"`
	RecordsFailed    int    `json:"records_failed"`
	OutputRows       int    `json:"output_rows"`
	CSVPath          string `json:"csv_path,omitempty"`
	SummaryPath      string `json:"summary_path,omitempty"`
	BadSDFPath       string `json:"bad_sdf_path,omitempty"`
}

// Record persists one run summary. frontend is "cli" or "web".
func (s *Store) Record(ctx context.Context, summary types.Summary, artifacts Artifacts, frontend string) error {
	var hash, dataset, operator string
	if summary.Audit != nil {
		hash = summary.Audit.InputSHA256
		dataset = summary.Audit.DatasetID
		operator = summary.Audit.Operator
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (
			id, run_timestamp_utc, frontend, source_file, input_sha256,
			dataset_id, operator, alcoa_enabled, records_total,
			records_converted, records_failed, output_rows,
			csv_path, summary_path, bad_sdf_path
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.RunID, summary.RunTimestampUTC, frontend, summary.SourceFile,
		hash, dataset, operator, summary.AlcoaEnabled,
		summary.Counts.RecordsTotal, summary.Counts.RecordsConverted,
		summary.Counts.RecordsFailed, summary.OutputRows,
		artifacts.CSVPath, artifacts.SummaryPath, artifacts.BadSDFPath,
	)
	if err != nil {
		return fmt.Errorf("recording run %s: %w", summary.RunID, err)
	}
	return nil
}

// List returns up to limit runs, most recent first.
func (s *Store) List(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_timestamp_utc, frontend, source_file, input_sha256,
			dataset_id, operator, alcoa_enabled, records_total,
			records_converted, records_failed, output_rows,
			csv_path, summary_path, bad_sdf_path
		FROM runs
		ORDER BY run_timestamp_utc DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(
			&r.ID, &r.RunTimestampUTC, &r.Frontend, &r.SourceFile, &r.InputSHA256,
			&r.DatasetID, &r.Operator, &r.AlcoaEnabled, &r.RecordsTotal,
			&r.RecordsConverted, &r.RecordsFailed, &r.OutputRows,
			&r.CSVPath, &r.SummaryPath, &r.BadSDFPath,
		); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return out, nil
}

// Get returns one run by ID.
func (s *Store) Get(ctx context.Context, id string) (*RunRecord, error) {
	var r RunRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT id, run_timestamp_utc, frontend, source_file, input_sha256,
			dataset_id, operator, alcoa_enabled, records_total,
			records_converted, records_failed, output_rows,
			csv_path, summary_path, bad_sdf_path
		FROM runs WHERE id = ?`, id).Scan(
		&r.ID, &r.RunTimestampUTC, &r.Frontend, &r.SourceFile, &r.InputSHA256,
		&r.DatasetID, &r.Operator, &r.AlcoaEnabled, &r.RecordsTotal,
		&r.RecordsConverted, &r.RecordsFailed, &r.OutputRows,
		&r.CSVPath, &r.SummaryPath, &r.BadSDFPath,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying run %s: %w", id, err)
	}
	return &r, nil
}
