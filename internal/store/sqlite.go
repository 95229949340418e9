package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"jobdash/internal/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS nodes (
	id   TEXT PRIMARY KEY,
	name TEXT NOT NULL
);
-- created_at holds microseconds since the unix epoch
CREATE TABLE IF NOT EXISTS job_specs (
	id         TEXT PRIMARY KEY,
	created_at INTEGER NOT NULL,
	body       TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS job_runs (
	id          TEXT PRIMARY KEY,
	job_spec_id TEXT NOT NULL,
	created_at  INTEGER NOT NULL,
	body        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_job_runs_latest ON job_runs (job_spec_id, created_at DESC, id DESC);
`

// SQLiteBackend stores records in a SQLite database. Specs and runs are kept
// as JSON documents next to the columns used for lookups and ordering.
type SQLiteBackend struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path
func OpenSQLite(path string) (*SQLiteBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// writes are serialised by sqlite anyway
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteBackend{db: db}, nil
}

// Close closes the database
func (s *SQLiteBackend) Close() error {
	return s.db.Close()
}

func (s *SQLiteBackend) JobSpec(ctx context.Context, id string) (core.JobSpec, error) {
	var spec core.JobSpec
	err := s.getBody(ctx, `SELECT body FROM job_specs WHERE id = ?`, id, &spec)
	if err != nil {
		return core.JobSpec{}, fmt.Errorf("job spec %s: %w", id, err)
	}
	return spec, nil
}

func (s *SQLiteBackend) LatestJobRuns(ctx context.Context, jobSpecID string, limit int) ([]core.JobRun, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT body FROM job_runs WHERE job_spec_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		jobSpecID, limit)
	if err != nil {
		return nil, fmt.Errorf("query job runs: %w", err)
	}
	defer rows.Close()

	runs := make([]core.JobRun, 0)
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan job run: %w", err)
		}
		var run core.JobRun
		if err := json.Unmarshal([]byte(body), &run); err != nil {
			return nil, fmt.Errorf("decode job run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (s *SQLiteBackend) CountJobRuns(ctx context.Context, jobSpecID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM job_runs WHERE job_spec_id = ?`, jobSpecID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count job runs: %w", err)
	}
	return n, nil
}

func (s *SQLiteBackend) JobRun(ctx context.Context, id string) (core.JobRun, error) {
	var run core.JobRun
	if err := s.getBody(ctx, `SELECT body FROM job_runs WHERE id = ?`, id, &run); err != nil {
		return core.JobRun{}, fmt.Errorf("job run %s: %w", id, err)
	}
	return run, nil
}

func (s *SQLiteBackend) Node(ctx context.Context, id string) (core.Node, error) {
	node := core.Node{ID: id}
	err := s.db.QueryRowContext(ctx, `SELECT name FROM nodes WHERE id = ?`, id).Scan(&node.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Node{}, fmt.Errorf("node %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.Node{}, fmt.Errorf("node %s: %w", id, err)
	}
	return node, nil
}

func (s *SQLiteBackend) PutJobSpec(ctx context.Context, spec core.JobSpec) error {
	body, err := json.Marshal(spec)
	if err != nil {
		return fmt.Errorf("encode job spec: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO job_specs (id, created_at, body) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET created_at = excluded.created_at, body = excluded.body`,
		spec.ID, spec.CreatedAt.UnixMicro(), string(body))
	if err != nil {
		return fmt.Errorf("save job spec %s: %w", spec.ID, err)
	}
	return nil
}

func (s *SQLiteBackend) PutJobRun(ctx context.Context, run core.JobRun) error {
	body, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("encode job run: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO job_runs (id, job_spec_id, created_at, body) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET job_spec_id = excluded.job_spec_id,
			created_at = excluded.created_at, body = excluded.body`,
		run.ID, run.JobSpecID, run.CreatedAt.UnixMicro(), string(body))
	if err != nil {
		return fmt.Errorf("save job run %s: %w", run.ID, err)
	}
	return nil
}

func (s *SQLiteBackend) PutNode(ctx context.Context, node core.Node) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO nodes (id, name) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name`,
		node.ID, node.Name)
	if err != nil {
		return fmt.Errorf("save node %s: %w", node.ID, err)
	}
	return nil
}

func (s *SQLiteBackend) getBody(ctx context.Context, query, id string, v any) error {
	var body string
	err := s.db.QueryRowContext(ctx, query, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(body), v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
