// Package storage provides persistence for refinement run traces.
//
// Information Hiding:
// - SQLite connection management hidden behind interface
// - Schema and migration details encapsulated
// - Thread-safe via sql.DB's built-in connection pooling
//
// The reflection core never imports this package; run history is an
// opt-in concern of the CLI layer.
package storage

import (
	"context"

	"github.com/mkray/reflector/model"
)

// RunSummary is the lightweight listing record for stored runs.
type RunSummary struct {
	ID                string `json:"id"`
	SessionID         string `json:"session_id"`
	OriginalPrompt    string `json:"original_prompt"`
	TotalIterations   int    `json:"total_iterations"`
	ContextMaintained bool   `json:"context_maintained"`
	CreatedAt         string `json:"created_at"`
}

// RunStorage persists refinement runs and their step traces.
type RunStorage interface {
	// SaveRun stores a run and all of its steps under a session.
	SaveRun(ctx context.Context, sessionID string, run model.RefinementRun) error

	// LoadRun retrieves a run with its steps by ID.
	// Returns nil when the run does not exist.
	LoadRun(ctx context.Context, runID string) (*model.RefinementRun, error)

	// ListRuns returns summaries for a session, newest first.
	// An empty sessionID lists runs across all sessions.
	ListRuns(ctx context.Context, sessionID string) ([]RunSummary, error)

	// DeleteSession removes all runs for a session.
	DeleteSession(ctx context.Context, sessionID string) error

	// Close releases resources.
	Close() error
}
