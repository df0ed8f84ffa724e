// SQLite-backed run storage.

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mkray/reflector/model"
)

// SqliteStorage implements RunStorage using SQLite.
// Thread-safe: sql.DB handles connection pooling and concurrent access.
type SqliteStorage struct {
	db *sql.DB
}

// OpenSqlite opens or creates a SQLite database at the given path.
// Creates parent directories if they don't exist.
func OpenSqlite(path string) (*SqliteStorage, error) {
	// Create parent directory if needed
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	storage := &SqliteStorage{db: db}
	if err := storage.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return storage, nil
}

// NewSqliteInMemory creates an in-memory database (useful for testing).
func NewSqliteInMemory() (*SqliteStorage, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory SQLite: %w", err)
	}

	storage := &SqliteStorage{db: db}
	if err := storage.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return storage, nil
}

// Close closes the database connection.
func (s *SqliteStorage) Close() error {
	return s.db.Close()
}

func (s *SqliteStorage) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			original_prompt TEXT NOT NULL,
			final_response TEXT NOT NULL,
			total_iterations INTEGER NOT NULL,
			context_maintained INTEGER NOT NULL,
			validation_passed INTEGER NOT NULL,
			created_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_runs_session
		ON runs(session_id, created_at DESC);

		CREATE TABLE IF NOT EXISTS steps (
			run_id TEXT NOT NULL,
			step_number INTEGER NOT NULL,
			input_text TEXT NOT NULL,
			output_text TEXT NOT NULL,
			relevance_score REAL NOT NULL,
			quality_score REAL NOT NULL,
			recovered INTEGER NOT NULL,
			validation_passed INTEGER NOT NULL,
			PRIMARY KEY (run_id, step_number),
			FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
		);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// SaveRun stores a run and all of its steps under a session.
func (s *SqliteStorage) SaveRun(ctx context.Context, sessionID string, run model.RefinementRun) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	// defer tx.Rollback() is safe even after Commit() - it becomes a no-op
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs
		 (run_id, session_id, original_prompt, final_response, total_iterations,
		  context_maintained, validation_passed, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, sessionID, run.OriginalPrompt, run.FinalResponse, run.TotalIterations,
		boolToInt(run.ContextMaintained), boolToInt(run.ValidationPassed),
		run.CreatedAt.Format("2006-01-02T15:04:05Z"),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	// Replace any steps from a previous save of this run.
	_, err = tx.ExecContext(ctx, "DELETE FROM steps WHERE run_id = ?", run.ID)
	if err != nil {
		return fmt.Errorf("failed to clear old steps: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO steps
		 (run_id, step_number, input_text, output_text, relevance_score,
		  quality_score, recovered, validation_passed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	for _, step := range run.Steps {
		_, err = stmt.ExecContext(ctx,
			run.ID, step.StepNumber, step.InputText, step.OutputText,
			step.RelevanceScore, step.QualityScore,
			boolToInt(step.Recovered), boolToInt(step.ValidationPassed),
		)
		if err != nil {
			return fmt.Errorf("failed to insert step %d: %w", step.StepNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// LoadRun retrieves a run with its steps by ID.
// Returns nil when the run does not exist.
func (s *SqliteStorage) LoadRun(ctx context.Context, runID string) (*model.RefinementRun, error) {
	var run model.RefinementRun
	var maintained, passed int
	var createdAt string

	err := s.db.QueryRowContext(ctx,
		`SELECT run_id, original_prompt, final_response, total_iterations,
		        context_maintained, validation_passed, created_at
		 FROM runs WHERE run_id = ?`, runID).
		Scan(&run.ID, &run.OriginalPrompt, &run.FinalResponse, &run.TotalIterations,
			&maintained, &passed, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}
	run.ContextMaintained = maintained != 0
	run.ValidationPassed = passed != 0
	run.CreatedAt = parseStoredTime(createdAt)

	rows, err := s.db.QueryContext(ctx,
		`SELECT step_number, input_text, output_text, relevance_score,
		        quality_score, recovered, validation_passed
		 FROM steps WHERE run_id = ? ORDER BY step_number ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query steps: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var step model.StepResult
		var recovered, stepPassed int
		if err := rows.Scan(&step.StepNumber, &step.InputText, &step.OutputText,
			&step.RelevanceScore, &step.QualityScore, &recovered, &stepPassed); err != nil {
			return nil, fmt.Errorf("failed to scan step: %w", err)
		}
		step.Recovered = recovered != 0
		step.ValidationPassed = stepPassed != 0
		run.Steps = append(run.Steps, step)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating steps: %w", err)
	}

	return &run, nil
}

// ListRuns returns summaries for a session, newest first.
// An empty sessionID lists runs across all sessions.
func (s *SqliteStorage) ListRuns(ctx context.Context, sessionID string) ([]RunSummary, error) {
	query := `SELECT run_id, session_id, original_prompt, total_iterations,
	                 context_maintained, created_at
	          FROM runs`
	args := []any{}
	if sessionID != "" {
		query += " WHERE session_id = ?"
		args = append(args, sessionID)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	summaries := []RunSummary{} // Start with empty slice, not nil
	for rows.Next() {
		var summary RunSummary
		var maintained int
		if err := rows.Scan(&summary.ID, &summary.SessionID, &summary.OriginalPrompt,
			&summary.TotalIterations, &maintained, &summary.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		summary.ContextMaintained = maintained != 0
		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return summaries, nil
}

// DeleteSession removes all runs for a session.
func (s *SqliteStorage) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM steps WHERE run_id IN (SELECT run_id FROM runs WHERE session_id = ?)`,
		sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete steps: %w", err)
	}
	_, err = s.db.ExecContext(ctx, "DELETE FROM runs WHERE session_id = ?", sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete runs: %w", err)
	}
	return nil
}

// parseStoredTime accepts the stored timestamp format; a malformed value
// yields the zero time rather than failing the load.
func parseStoredTime(s string) time.Time {
	t, err := time.Parse("2006-01-02T15:04:05Z", s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Verify SqliteStorage implements RunStorage
var _ RunStorage = (*SqliteStorage)(nil)
