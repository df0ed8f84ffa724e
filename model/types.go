// Package model provides domain types shared across packages.
package model

import "time"

// StepResult records the outcome of one refinement round.
// Created once by the controller when the round is accepted; immutable afterwards.
type StepResult struct {
	StepNumber       int     `json:"step_number"` // 1-based, sequential
	InputText        string  `json:"input_text"`
	OutputText       string  `json:"output_text"`
	RelevanceScore   float64 `json:"relevance_score"`
	QualityScore     float64 `json:"quality_score"`
	Recovered        bool    `json:"recovered"` // a recovery attempt produced OutputText
	ValidationPassed bool    `json:"validation_passed"`
}

// RefinementRun is the trace of one controller invocation.
// Steps is append-only: one entry per completed round, none for a round
// that failed at generation.
type RefinementRun struct {
	ID              string       `json:"id"`
	OriginalPrompt  string       `json:"original_prompt"`
	Steps           []StepResult `json:"steps"`
	FinalResponse   string       `json:"final_response"`
	TotalIterations int          `json:"total_iterations"`
	// ContextMaintained is true iff every recorded step passed validation.
	ContextMaintained bool `json:"context_maintained"`
	// ValidationPassed mirrors ContextMaintained as the run-level verdict.
	ValidationPassed bool      `json:"validation_passed"`
	CreatedAt        time.Time `json:"created_at"`
}

// LastStep returns the most recent step, or nil if no round completed.
func (r *RefinementRun) LastStep() *StepResult {
	if len(r.Steps) == 0 {
		return nil
	}
	return &r.Steps[len(r.Steps)-1]
}

// BatchResult pairs a prompt with its initial and improved responses
// from the simple reflect-then-improve flow.
type BatchResult struct {
	Prompt   string `json:"prompt"`
	Initial  string `json:"initial"`
	Improved string `json:"improved"`
}
