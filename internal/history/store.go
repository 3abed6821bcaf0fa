// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps a ledger of reflow runs in a local SQLite database.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/cli-reflow/pkg/types"
)

const dbFile = "reflow.db"

// timeLayout is fixed-width so that started_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store manages the run history database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates cfg.Dir/reflow.db and its schema.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = types.DefaultHistoryDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = types.DefaultHistoryResults
	}

	s := &Store{db: db, maxResults: maxResults}
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
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			duration_ms INTEGER NOT NULL,
			input_path TEXT NOT NULL,
			output_path TEXT NOT NULL,
			format TEXT NOT NULL,
			total_lines INTEGER NOT NULL,
			lines_scanned INTEGER NOT NULL,
			records INTEGER NOT NULL,
			unclosed INTEGER NOT NULL,
			status TEXT NOT NULL,
			message TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record inserts run, assigning a new UUID when run.ID is empty. It returns
// the stored ID.
func (s *Store) Record(ctx context.Context, run types.RunRecord) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, duration_ms, input_path, output_path, format,
			total_lines, lines_scanned, records, unclosed, status, message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.UTC().Format(timeLayout),
		run.Duration.Milliseconds(),
		run.InputPath,
		run.OutputPath,
		string(run.Format),
		run.TotalLines,
		run.LinesScanned,
		run.Records,
		run.Unclosed,
		string(run.Status),
		run.Message,
	)
	if err != nil {
		return "", fmt.Errorf("inserting run %s: %w", run.ID, err)
	}
	return run.ID, nil
}

// List returns up to limit runs, newest first. A limit of zero or less uses
// the configured default.
func (s *Store) List(ctx context.Context, limit int) ([]types.RunRecord, error) {
	if limit <= 0 {
		limit = s.maxResults
	}
	return s.query(ctx, limit)
}

func (s *Store) query(ctx context.Context, limit int) ([]types.RunRecord, error) {
	q := `SELECT id, started_at, duration_ms, input_path, output_path, format,
			total_lines, lines_scanned, records, unclosed, status, message
		FROM runs ORDER BY started_at DESC, rowid DESC`
	var args []any
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []types.RunRecord
	for rows.Next() {
		var (
			r          types.RunRecord
			startedAt  string
			durationMS int64
			format     string
			status     string
			message    sql.NullString
		)
		if err := rows.Scan(&r.ID, &startedAt, &durationMS, &r.InputPath, &r.OutputPath, &format,
			&r.TotalLines, &r.LinesScanned, &r.Records, &r.Unclosed, &status, &message); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		t, err := time.Parse(timeLayout, startedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing started_at of run %s: %w", r.ID, err)
		}
		r.StartedAt = t
		r.Duration = time.Duration(durationMS) * time.Millisecond
		r.Format = types.Format(format)
		r.Status = types.RunStatus(status)
		r.Message = message.String
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
