package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// StatusRunning marks a run that has been started but not finished.
const StatusRunning = "running"

// ErrUnknownRun is returned by Finish when no run has the given id.
var ErrUnknownRun = errors.New("unknown export run")

// Run is one recorded export.
type Run struct {
	ID          string     `json:"id"`
	Kind        string     `json:"kind"`
	Project     string     `json:"project"`
	Destination string     `json:"destination"`
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
	Status      string     `json:"status"`
	Errors      int        `json:"errors"`
	Warnings    int        `json:"warnings"`
	Files       int        `json:"files"`
	Bytes       int64      `json:"bytes"`
	Message     string     `json:"message,omitempty"`
}

// Duration reports how long a finished run took, or zero while running.
func (r Run) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Outcome carries the totals written when a run finishes.
type Outcome struct {
	Status   string
	Errors   int
	Warnings int
	Files    int
	Bytes    int64
	Message  string
}

// Store persists export runs backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open creates or connects to the history database at path and applies
// migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("history path is empty")
	}
	db, err := sql.Open("sqlite", filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path, now: time.Now}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
}

// Start inserts a running export. An empty ID is filled with a new uuid.
func (s *Store) Start(ctx context.Context, run Run) (Run, error) {
	if strings.TrimSpace(run.Kind) == "" {
		return Run{}, errors.New("export kind is required")
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = s.now()
	}
	run.StartedAt = run.StartedAt.UTC()
	run.Status = StatusRunning
	run.FinishedAt = nil

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO export_runs (id, kind, project, destination, started_at, status)
         VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.Kind,
		run.Project,
		run.Destination,
		run.StartedAt.Format(timeLayout),
		run.Status,
	)
	if err != nil {
		return Run{}, fmt.Errorf("insert export run: %w", err)
	}
	return run, nil
}

// Finish records the outcome of a run started with Start.
func (s *Store) Finish(ctx context.Context, id string, outcome Outcome) error {
	status := strings.TrimSpace(outcome.Status)
	if status == "" || status == StatusRunning {
		return fmt.Errorf("finish run %s: invalid status %q", id, outcome.Status)
	}
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE export_runs
         SET finished_at = ?, status = ?, errors = ?, warnings = ?, files = ?, bytes = ?, message = ?
         WHERE id = ?`,
		s.now().UTC().Format(timeLayout),
		status,
		outcome.Errors,
		outcome.Warnings,
		outcome.Files,
		outcome.Bytes,
		nullableString(outcome.Message),
		id,
	)
	if err != nil {
		return fmt.Errorf("update export run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownRun, id)
	}
	return nil
}

// Get returns the run with the given id, or nil when none exists.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM export_runs WHERE id = ?", id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// List returns the most recent runs first. A limit <= 0 returns every run.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := "SELECT " + runColumns + " FROM export_runs ORDER BY started_at DESC, rowid DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query export runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate export runs: %w", err)
	}
	return runs, nil
}

// Prune deletes finished runs that started before cutoff and returns how many
// were removed.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(
		ctx,
		"DELETE FROM export_runs WHERE finished_at IS NOT NULL AND started_at < ?",
		cutoff.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("prune export runs: %w", err)
	}
	return res.RowsAffected()
}
