// Package runs persists run history: each document generation or agent
// pipeline run, its per-row outcomes, and per-agent outputs. The dashboard
// reads this store for its recent-activity feed.
package runs

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Run kinds.
const (
	KindGenerate = "generate"
	KindAgents   = "agents"
)

// Run is one workflow execution.
type Run struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	WorkflowID string    `json:"workflow_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
	Total      int       `json:"total"`
	Done       int       `json:"done"`
	Failed     int       `json:"failed"`
	Skipped    int       `json:"skipped"`
}

// RowResult is the outcome of one worklist row within a run.
type RowResult struct {
	RunID      string    `json:"run_id"`
	SheetRow   int       `json:"sheet_row"`
	Status     string    `json:"status"`
	DocURL     string    `json:"doc_url,omitempty"`
	PDFURL     string    `json:"pdf_url,omitempty"`
	Error      string    `json:"error,omitempty"`
	FinishedAt time.Time `json:"finished_at"`
}

// AgentResult is one agent's output for one worklist row.
type AgentResult struct {
	RunID        string    `json:"run_id"`
	SheetRow     int       `json:"sheet_row"`
	AgentID      string    `json:"agent_id"`
	AgentName    string    `json:"agent_name"`
	Output       string    `json:"output,omitempty"`
	Error        string    `json:"error,omitempty"`
	InputTokens  int       `json:"input_tokens"`
	OutputTokens int       `json:"output_tokens"`
	FinishedAt   time.Time `json:"finished_at"`
}

// Store is a SQLite-backed run history store.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	kind        TEXT NOT NULL,
	workflow_id TEXT NOT NULL,
	started_at  TEXT NOT NULL,
	finished_at TEXT NOT NULL DEFAULT '',
	total       INTEGER NOT NULL DEFAULT 0,
	done        INTEGER NOT NULL DEFAULT 0,
	failed      INTEGER NOT NULL DEFAULT 0,
	skipped     INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS row_results (
	run_id      TEXT NOT NULL REFERENCES runs(id),
	sheet_row   INTEGER NOT NULL,
	status      TEXT NOT NULL,
	doc_url     TEXT NOT NULL DEFAULT '',
	pdf_url     TEXT NOT NULL DEFAULT '',
	error       TEXT NOT NULL DEFAULT '',
	finished_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS agent_results (
	run_id        TEXT NOT NULL REFERENCES runs(id),
	sheet_row     INTEGER NOT NULL,
	agent_id      TEXT NOT NULL,
	agent_name    TEXT NOT NULL,
	output        TEXT NOT NULL DEFAULT '',
	error         TEXT NOT NULL DEFAULT '',
	input_tokens  INTEGER NOT NULL DEFAULT 0,
	output_tokens INTEGER NOT NULL DEFAULT 0,
	finished_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_row_results_run ON row_results(run_id);
CREATE INDEX IF NOT EXISTS idx_agent_results_run ON agent_results(run_id);
`

// Open opens (creating if needed) the store at the given path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open runs db: %w", err)
	}
	// SQLite allows one writer; workers funnel writes through activities so
	// a single connection keeps SQLITE_BUSY out of the picture.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init runs schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateRun inserts a new run record.
func (s *Store) CreateRun(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, kind, workflow_id, started_at, total) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Kind, run.WorkflowID, encodeTime(run.StartedAt), run.Total)
	if err != nil {
		return fmt.Errorf("create run %s: %w", run.ID, err)
	}
	return nil
}

// FinishRun records a run's final counters and finish time.
func (s *Store) FinishRun(ctx context.Context, id string, done, failed, skipped int) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, done = ?, failed = ?, skipped = ? WHERE id = ?`,
		encodeTime(time.Now().UTC()), done, failed, skipped, id)
	if err != nil {
		return fmt.Errorf("finish run %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("finish run %s: not found", id)
	}
	return nil
}

// RecordRowResult appends one row outcome.
func (s *Store) RecordRowResult(ctx context.Context, r RowResult) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO row_results (run_id, sheet_row, status, doc_url, pdf_url, error, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.SheetRow, r.Status, r.DocURL, r.PDFURL, r.Error, encodeTime(r.FinishedAt))
	if err != nil {
		return fmt.Errorf("record row result: %w", err)
	}
	return nil
}

// RecordAgentResult appends one agent outcome.
func (s *Store) RecordAgentResult(ctx context.Context, r AgentResult) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO agent_results (run_id, sheet_row, agent_id, agent_name, output, error, input_tokens, output_tokens, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.SheetRow, r.AgentID, r.AgentName, r.Output, r.Error,
		r.InputTokens, r.OutputTokens, encodeTime(r.FinishedAt))
	if err != nil {
		return fmt.Errorf("record agent result: %w", err)
	}
	return nil
}

// RecentRuns returns the newest runs first, up to limit.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, workflow_id, started_at, finished_at, total, done, failed, skipped
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var started, finished string
		if err := rows.Scan(&r.ID, &r.Kind, &r.WorkflowID, &started, &finished,
			&r.Total, &r.Done, &r.Failed, &r.Skipped); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.StartedAt = decodeTime(started)
		r.FinishedAt = decodeTime(finished)
		out = append(out, r)
	}
	return out, rows.Err()
}

// RecentRowResults returns the newest row outcomes first, up to limit. This
// backs the dashboard's recent-activity feed.
func (s *Store) RecentRowResults(ctx context.Context, limit int) ([]RowResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, sheet_row, status, doc_url, pdf_url, error, finished_at
		 FROM row_results ORDER BY finished_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list row results: %w", err)
	}
	defer rows.Close()

	var out []RowResult
	for rows.Next() {
		var r RowResult
		var finished string
		if err := rows.Scan(&r.RunID, &r.SheetRow, &r.Status, &r.DocURL, &r.PDFURL,
			&r.Error, &finished); err != nil {
			return nil, fmt.Errorf("scan row result: %w", err)
		}
		r.FinishedAt = decodeTime(finished)
		out = append(out, r)
	}
	return out, rows.Err()
}

// AgentResults returns all agent outcomes for a run in insertion order.
func (s *Store) AgentResults(ctx context.Context, runID string) ([]AgentResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, sheet_row, agent_id, agent_name, output, error, input_tokens, output_tokens, finished_at
		 FROM agent_results WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("list agent results: %w", err)
	}
	defer rows.Close()

	var out []AgentResult
	for rows.Next() {
		var r AgentResult
		var finished string
		if err := rows.Scan(&r.RunID, &r.SheetRow, &r.AgentID, &r.AgentName, &r.Output,
			&r.Error, &r.InputTokens, &r.OutputTokens, &finished); err != nil {
			return nil, fmt.Errorf("scan agent result: %w", err)
		}
		r.FinishedAt = decodeTime(finished)
		out = append(out, r)
	}
	return out, rows.Err()
}

// timeLayout is RFC 3339 UTC with fixed-width nanoseconds. ORDER BY compares
// the stored TEXT, so every value must be the same width; RFC3339Nano trims
// trailing fraction zeros and would sort "…00.5Z" after "…00.45Z".
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func encodeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func decodeTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
