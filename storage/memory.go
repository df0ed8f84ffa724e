// In-memory run storage for tests and ephemeral use.

package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/mkray/reflector/model"
)

// MemoryStorage implements RunStorage without persistence.
// Thread-safe via an internal mutex.
type MemoryStorage struct {
	mu       sync.RWMutex
	runs     map[string]model.RefinementRun // runID -> run
	sessions map[string]string              // runID -> sessionID
}

// NewMemoryStorage creates an empty in-memory run store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		runs:     make(map[string]model.RefinementRun),
		sessions: make(map[string]string),
	}
}

// SaveRun stores a run and all of its steps under a session.
func (s *MemoryStorage) SaveRun(_ context.Context, sessionID string, run model.RefinementRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Copy the step slice so later caller mutations don't leak in.
	stored := run
	stored.Steps = append([]model.StepResult(nil), run.Steps...)
	s.runs[run.ID] = stored
	s.sessions[run.ID] = sessionID
	return nil
}

// LoadRun retrieves a run by ID, or nil when absent.
func (s *MemoryStorage) LoadRun(_ context.Context, runID string) (*model.RefinementRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[runID]
	if !ok {
		return nil, nil
	}
	out := run
	out.Steps = append([]model.StepResult(nil), run.Steps...)
	return &out, nil
}

// ListRuns returns summaries for a session, newest first.
func (s *MemoryStorage) ListRuns(_ context.Context, sessionID string) ([]RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := []RunSummary{}
	for id, run := range s.runs {
		if sessionID != "" && s.sessions[id] != sessionID {
			continue
		}
		summaries = append(summaries, RunSummary{
			ID:                run.ID,
			SessionID:         s.sessions[id],
			OriginalPrompt:    run.OriginalPrompt,
			TotalIterations:   run.TotalIterations,
			ContextMaintained: run.ContextMaintained,
			CreatedAt:         run.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt > summaries[j].CreatedAt
	})
	return summaries, nil
}

// DeleteSession removes all runs for a session.
func (s *MemoryStorage) DeleteSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, session := range s.sessions {
		if session == sessionID {
			delete(s.runs, id)
			delete(s.sessions, id)
		}
	}
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStorage) Close() error {
	return nil
}

// Verify MemoryStorage implements RunStorage
var _ RunStorage = (*MemoryStorage)(nil)
