// Package reflection implements the refinement loop over an LLM provider.
//
// Two flows share the same llm.Client and scoring heuristics:
// - Engine: the validated multi-round loop with recovery (Run)
// - Simple: the two-call reflect-then-improve flow (ReflectAndImprove et al.)
//
// Information Hiding:
// - Prompt construction hidden
// - Per-round state machine (generate/validate/recover/accept) hidden
// - Score thresholds configurable but defaulted

package reflection

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mkray/reflector/llm"
	"github.com/mkray/reflector/model"
	"github.com/mkray/reflector/scoring"
)

// StepObserver receives progress callbacks from the validated loop.
// Used by the CLI for round-by-round output; the engine itself never prints.
type StepObserver interface {
	// StepStarted is called before the round's first generation.
	StepStarted(stepNumber, totalSteps int)
	// RecoveryTriggered is called when a round fails validation and a
	// recovery generation is about to run.
	RecoveryTriggered(stepNumber int, relevance, quality float64)
	// StepCompleted is called after a round's StepResult is recorded.
	StepCompleted(step model.StepResult)
}

// Engine drives the validated refinement loop.
// Each round is causally chained to the previous round's accepted output,
// so a single Engine run is strictly sequential. Independent runs share no
// state and may proceed concurrently.
type Engine struct {
	client             *llm.Client
	relevanceThreshold float64
	qualityThreshold   float64
	observer           StepObserver
}

// NewEngine creates an engine with the default validation thresholds.
func NewEngine(client *llm.Client) *Engine {
	return &Engine{
		client:             client,
		relevanceThreshold: scoring.DefaultRelevanceThreshold,
		qualityThreshold:   scoring.DefaultQualityThreshold,
	}
}

// WithThresholds overrides the validation thresholds.
func (e *Engine) WithThresholds(relevance, quality float64) *Engine {
	e.relevanceThreshold = relevance
	e.qualityThreshold = quality
	return e
}

// WithObserver attaches a progress observer.
func (e *Engine) WithObserver(observer StepObserver) *Engine {
	e.observer = observer
	return e
}

// Run executes up to steps refinement rounds against the original prompt,
// stopping early when the executed-iteration count reaches maxIterations or
// a generation fails.
//
// Every completed round appends one StepResult; a round whose generation
// fails appends nothing and aborts the loop. On abort the partially
// populated run is returned together with the generation error - the trace
// accumulated so far is never discarded.
func (e *Engine) Run(ctx context.Context, prompt string, steps, maxIterations int) (model.RefinementRun, error) {
	run := model.RefinementRun{
		ID:                uuid.NewString(),
		OriginalPrompt:    prompt,
		FinalResponse:     prompt,
		ContextMaintained: true,
		ValidationPassed:  true,
		CreatedAt:         time.Now().UTC(),
	}

	currentResponse := prompt
	iterations := 0

	for stepNumber := 1; stepNumber <= steps; stepNumber++ {
		if e.observer != nil {
			e.observer.StepStarted(stepNumber, steps)
		}

		output, err := e.client.Generate(ctx, roundPrompt(prompt, currentResponse))
		if err != nil {
			// Abort: keep everything accumulated so far, record no step
			// for the failed round.
			e.finalize(&run, currentResponse, iterations)
			return run, fmt.Errorf("step %d: %w", stepNumber, err)
		}

		relevance := scoring.ScoreRelevance(prompt, output)
		quality := scoring.ScoreQuality(output)
		recovered := false

		if relevance < e.relevanceThreshold || quality < e.qualityThreshold {
			if e.observer != nil {
				e.observer.RecoveryTriggered(stepNumber, relevance, quality)
			}

			// One recovery attempt per round. The recovered output is
			// accepted regardless of its scores.
			output, err = e.client.Generate(ctx, recoveryPrompt(prompt, currentResponse))
			if err != nil {
				e.finalize(&run, currentResponse, iterations)
				return run, fmt.Errorf("step %d recovery: %w", stepNumber, err)
			}

			relevance = scoring.ScoreRelevance(prompt, output)
			quality = scoring.ScoreQuality(output)
			recovered = true
		}

		step := model.StepResult{
			StepNumber:       stepNumber,
			InputText:        currentResponse,
			OutputText:       output,
			RelevanceScore:   relevance,
			QualityScore:     quality,
			Recovered:        recovered,
			ValidationPassed: relevance >= e.relevanceThreshold && quality >= e.qualityThreshold,
		}
		run.Steps = append(run.Steps, step)
		currentResponse = output
		iterations++

		if e.observer != nil {
			e.observer.StepCompleted(step)
		}

		if iterations >= maxIterations {
			break
		}
	}

	e.finalize(&run, currentResponse, iterations)
	return run, nil
}

// finalize computes the run-level verdicts from the recorded steps.
func (e *Engine) finalize(run *model.RefinementRun, finalResponse string, iterations int) {
	run.FinalResponse = finalResponse
	run.TotalIterations = iterations

	maintained := true
	for _, step := range run.Steps {
		if !step.ValidationPassed {
			maintained = false
			break
		}
	}
	run.ContextMaintained = maintained
	run.ValidationPassed = maintained
}
