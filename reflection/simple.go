// Simple reflect-then-improve flow: one generation plus one reflection of
// that generation, with no validation loop.

package reflection

import (
	"context"
	"fmt"

	"github.com/mkray/reflector/llm"
	"github.com/mkray/reflector/model"
)

// Simple runs the non-validated two-call flow.
type Simple struct {
	client *llm.Client
}

// NewSimple creates a simple reflection flow over the given client.
func NewSimple(client *llm.Client) *Simple {
	return &Simple{client: client}
}

// ReflectAndImprove generates an initial response for the prompt, then asks
// the model to review and improve it. Returns both responses.
func (s *Simple) ReflectAndImprove(ctx context.Context, prompt string) (initial, improved string, err error) {
	initial, err = s.client.Generate(ctx, prompt)
	if err != nil {
		return "", "", err
	}

	improved, err = s.client.Generate(ctx, reflectionPrompt(initial))
	if err != nil {
		return "", "", err
	}

	return initial, improved, nil
}

// MultiStep chains ReflectAndImprove for the requested number of cycles,
// feeding each cycle's improved text into the next. Returns the final text.
func (s *Simple) MultiStep(ctx context.Context, prompt string, steps int) (string, error) {
	current := prompt
	for i := 0; i < steps; i++ {
		_, improved, err := s.ReflectAndImprove(ctx, current)
		if err != nil {
			return "", fmt.Errorf("reflection step %d: %w", i+1, err)
		}
		current = improved
	}
	return current, nil
}

// Batch applies ReflectAndImprove to each prompt in input order.
// The first failure aborts the batch: the error propagates and no partial
// results are returned.
func (s *Simple) Batch(ctx context.Context, prompts []string) ([]model.BatchResult, error) {
	results := make([]model.BatchResult, 0, len(prompts))
	for i, prompt := range prompts {
		initial, improved, err := s.ReflectAndImprove(ctx, prompt)
		if err != nil {
			return nil, fmt.Errorf("prompt %d/%d: %w", i+1, len(prompts), err)
		}
		results = append(results, model.BatchResult{
			Prompt:   prompt,
			Initial:  initial,
			Improved: improved,
		})
	}
	return results, nil
}

// Compare asks the model for a structured diff of two responses (what
// improved, what stayed, specific changes), then runs that analysis through
// ReflectAndImprove. Returns the comparison and its refined version.
func (s *Simple) Compare(ctx context.Context, initial, improved string) (comparison, refined string, err error) {
	return s.ReflectAndImprove(ctx, comparisonPrompt(initial, improved))
}
