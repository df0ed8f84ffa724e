package storage

import (
	"context"
	"testing"
	"time"

	"github.com/mkray/reflector/model"
)

func sampleRun(id string) model.RefinementRun {
	return model.RefinementRun{
		ID:             id,
		OriginalPrompt: "Explain container orchestration",
		Steps: []model.StepResult{
			{
				StepNumber:       1,
				InputText:        "Explain container orchestration",
				OutputText:       "Container orchestration automates deployment.",
				RelevanceScore:   1.0,
				QualityScore:     1.0,
				ValidationPassed: true,
			},
			{
				StepNumber:       2,
				InputText:        "Container orchestration automates deployment.",
				OutputText:       "Container orchestration automates deployment and scaling.",
				RelevanceScore:   0.75,
				QualityScore:     0.7,
				Recovered:        true,
				ValidationPassed: true,
			},
		},
		FinalResponse:     "Container orchestration automates deployment and scaling.",
		TotalIterations:   2,
		ContextMaintained: true,
		ValidationPassed:  true,
		CreatedAt:         time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestSqliteSaveAndLoadRun(t *testing.T) {
	store, err := NewSqliteInMemory()
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	run := sampleRun("run-1")

	if err := store.SaveRun(ctx, "session-a", run); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	loaded, err := store.LoadRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("LoadRun failed: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected run, got nil")
	}
	if loaded.OriginalPrompt != run.OriginalPrompt {
		t.Errorf("prompt mismatch: %q", loaded.OriginalPrompt)
	}
	if loaded.TotalIterations != 2 {
		t.Errorf("expected 2 iterations, got %d", loaded.TotalIterations)
	}
	if len(loaded.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(loaded.Steps))
	}
	if !loaded.Steps[1].Recovered {
		t.Error("expected recovered flag on step 2")
	}
	if loaded.Steps[1].RelevanceScore != 0.75 {
		t.Errorf("expected relevance 0.75, got %v", loaded.Steps[1].RelevanceScore)
	}
	if !loaded.ContextMaintained || !loaded.ValidationPassed {
		t.Error("expected run-level verdicts preserved")
	}
}

func TestSqliteLoadMissingRun(t *testing.T) {
	store, err := NewSqliteInMemory()
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer store.Close()

	loaded, err := store.LoadRun(context.Background(), "no-such-run")
	if err != nil {
		t.Fatalf("LoadRun failed: %v", err)
	}
	if loaded != nil {
		t.Errorf("expected nil for missing run, got %+v", loaded)
	}
}

func TestSqliteListRunsBySession(t *testing.T) {
	store, err := NewSqliteInMemory()
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.SaveRun(ctx, "session-a", sampleRun("run-1")); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	if err := store.SaveRun(ctx, "session-b", sampleRun("run-2")); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	all, err := store.ListRuns(ctx, "")
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 runs across sessions, got %d", len(all))
	}

	onlyA, err := store.ListRuns(ctx, "session-a")
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(onlyA) != 1 || onlyA[0].ID != "run-1" {
		t.Errorf("expected only run-1 for session-a, got %v", onlyA)
	}
}

func TestSqliteDeleteSession(t *testing.T) {
	store, err := NewSqliteInMemory()
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.SaveRun(ctx, "session-a", sampleRun("run-1")); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	if err := store.DeleteSession(ctx, "session-a"); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}

	loaded, err := store.LoadRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("LoadRun failed: %v", err)
	}
	if loaded != nil {
		t.Error("expected run deleted with its session")
	}
}

func TestSqliteSaveRunOverwrite(t *testing.T) {
	store, err := NewSqliteInMemory()
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	run := sampleRun("run-1")
	if err := store.SaveRun(ctx, "session-a", run); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	run.Steps = run.Steps[:1]
	run.TotalIterations = 1
	if err := store.SaveRun(ctx, "session-a", run); err != nil {
		t.Fatalf("second SaveRun failed: %v", err)
	}

	loaded, err := store.LoadRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("LoadRun failed: %v", err)
	}
	if len(loaded.Steps) != 1 {
		t.Errorf("expected steps replaced on re-save, got %d", len(loaded.Steps))
	}
}
