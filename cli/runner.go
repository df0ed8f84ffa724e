// Command execution for CLI commands.
//
// Information Hiding:
// - Provider/config setup hidden
// - Output formatting hidden
// - Optional run-history persistence hidden

package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mkray/reflector/config"
	"github.com/mkray/reflector/llm"
	"github.com/mkray/reflector/model"
	"github.com/mkray/reflector/reflection"
	"github.com/mkray/reflector/storage"
)

// Options holds CLI execution options.
type Options struct {
	Provider  string
	Model     string
	Steps     int
	MaxIter   int
	DBPath    string
	SessionID string
	Verbose   bool
}

// DefaultOptions returns default CLI options.
func DefaultOptions() Options {
	return Options{
		Steps:   3,
		MaxIter: 5,
	}
}

// createProvider builds an LLM provider from options and environment.
// Credential resolution happens here, at the edge; missing keys fail fast
// before any network call.
func createProvider(opts Options) (llm.Provider, config.Settings, error) {
	name := opts.Provider
	if name == "" {
		name = "gemini"
	}

	providerType, err := llm.ParseProviderType(name)
	if err != nil {
		return nil, config.Settings{}, err
	}

	settings, err := config.New(name)
	if err != nil {
		return nil, config.Settings{}, err
	}

	apiKey, err := config.APIKeyFor(name)
	if err != nil {
		return nil, config.Settings{}, fmt.Errorf("configuration: %w", err)
	}

	modelName := opts.Model
	if modelName == "" {
		modelName = settings.LLM.Model
	}

	provider, err := llm.NewProviderBuilder(providerType).
		Model(modelName).
		MaxTokens(settings.LLM.MaxTokens).
		Temperature(float32(settings.LLM.Temperature)).
		APIKey(apiKey)
	if err != nil {
		return nil, config.Settings{}, err
	}
	return provider, settings, nil
}

// openStore opens the run-history store when a path was given.
// The returned cleanup is nil when no store is in use.
func openStore(opts Options) (storage.RunStorage, func(), error) {
	if opts.DBPath == "" {
		return nil, nil, nil
	}
	store, err := storage.OpenSqlite(opts.DBPath)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}

// stepPrinter reports loop progress to stdout.
type stepPrinter struct {
	verbose bool
}

func (p *stepPrinter) StepStarted(stepNumber, totalSteps int) {
	fmt.Printf("Step %d/%d: refining...\n", stepNumber, totalSteps)
}

func (p *stepPrinter) RecoveryTriggered(stepNumber int, relevance, quality float64) {
	fmt.Printf("Step %d failed validation (relevance %.2f, quality %.2f), attempting recovery...\n",
		stepNumber, relevance, quality)
}

func (p *stepPrinter) StepCompleted(step model.StepResult) {
	fmt.Printf("Step %d completed: %d chars -> %d chars (relevance %.2f, quality %.2f)\n",
		step.StepNumber, len(step.InputText), len(step.OutputText),
		step.RelevanceScore, step.QualityScore)
	if p.verbose {
		fmt.Printf("--- output ---\n%s\n--------------\n", step.OutputText)
	}
}

// Run executes the validated refinement loop for a single prompt.
func Run(ctx context.Context, prompt string, opts Options) error {
	provider, settings, err := createProvider(opts)
	if err != nil {
		return err
	}

	store, cleanup, err := openStore(opts)
	if err != nil {
		return err
	}
	if cleanup != nil {
		defer cleanup()
	}

	steps := opts.Steps
	if steps <= 0 {
		steps = settings.Reflect.Steps
	}
	maxIter := opts.MaxIter
	if maxIter <= 0 {
		maxIter = settings.Reflect.MaxIterations
	}

	engine := reflection.NewEngine(llm.NewClient(provider)).
		WithThresholds(settings.Reflect.RelevanceThreshold, settings.Reflect.QualityThreshold).
		WithObserver(&stepPrinter{verbose: opts.Verbose})

	fmt.Printf("Refining with %s (%s), %d steps (max %d iterations)...\n\n",
		provider.Name(), provider.Model(), steps, maxIter)

	run, runErr := engine.Run(ctx, prompt, steps, maxIter)
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Run aborted: %v\n", runErr)
	}

	printRun(run)

	if store != nil {
		if err := store.SaveRun(ctx, opts.SessionID, run); err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		fmt.Printf("Saved run %s\n", run.ID)
	}

	return runErr
}

// printRun prints the run summary and final response.
func printRun(run model.RefinementRun) {
	fmt.Printf("\n=== Final Response ===\n%s\n\n", run.FinalResponse)
	fmt.Printf("Iterations: %d, context maintained: %v\n", run.TotalIterations, run.ContextMaintained)
	for _, step := range run.Steps {
		marker := "ok"
		if !step.ValidationPassed {
			marker = "FAILED"
		}
		recovered := ""
		if step.Recovered {
			recovered = ", recovered"
		}
		fmt.Printf("  step %d: relevance %.2f, quality %.2f (%s%s)\n",
			step.StepNumber, step.RelevanceScore, step.QualityScore, marker, recovered)
	}
}

// Reflect executes the simple reflect-then-improve flow.
// With multi > 0 the flow is chained that many times.
func Reflect(ctx context.Context, prompt string, multi int, opts Options) error {
	provider, _, err := createProvider(opts)
	if err != nil {
		return err
	}

	simple := reflection.NewSimple(llm.NewClient(provider))

	if multi > 0 {
		final, err := simple.MultiStep(ctx, prompt, multi)
		if err != nil {
			return err
		}
		fmt.Printf("=== Final Improved Response ===\n%s\n", final)
		return nil
	}

	initial, improved, err := simple.ReflectAndImprove(ctx, prompt)
	if err != nil {
		return err
	}

	fmt.Printf("=== Initial Response ===\n%s\n\n", initial)
	fmt.Printf("=== Improved Response ===\n%s\n", improved)
	return nil
}

// Batch runs the simple flow over every non-empty line of a prompt file.
// The first failure aborts the batch.
func Batch(ctx context.Context, path string, opts Options) error {
	prompts, err := readPromptFile(path)
	if err != nil {
		return err
	}
	if len(prompts) == 0 {
		return fmt.Errorf("no prompts found in %s", path)
	}

	provider, _, err := createProvider(opts)
	if err != nil {
		return err
	}

	simple := reflection.NewSimple(llm.NewClient(provider))

	fmt.Printf("Processing %d prompts...\n\n", len(prompts))
	results, err := simple.Batch(ctx, prompts)
	if err != nil {
		return err
	}

	for i, result := range results {
		fmt.Printf("--- %d/%d: %s ---\n", i+1, len(results), truncate(result.Prompt, 50))
		fmt.Printf("%s\n\n", result.Improved)
	}
	return nil
}

// Compare analyzes the differences between two response files.
func Compare(ctx context.Context, initialPath, improvedPath string, opts Options) error {
	initial, err := os.ReadFile(initialPath)
	if err != nil {
		return fmt.Errorf("failed to read initial response: %w", err)
	}
	improved, err := os.ReadFile(improvedPath)
	if err != nil {
		return fmt.Errorf("failed to read improved response: %w", err)
	}

	provider, _, err := createProvider(opts)
	if err != nil {
		return err
	}

	simple := reflection.NewSimple(llm.NewClient(provider))

	comparison, refined, err := simple.Compare(ctx, string(initial), string(improved))
	if err != nil {
		return err
	}

	fmt.Printf("=== Comparison Analysis ===\n%s\n\n", comparison)
	if opts.Verbose {
		fmt.Printf("=== Refined Analysis ===\n%s\n", refined)
	}
	return nil
}

// History lists stored runs.
func History(ctx context.Context, opts Options) error {
	if opts.DBPath == "" {
		return fmt.Errorf("history requires --db")
	}

	store, cleanup, err := openStore(opts)
	if err != nil {
		return err
	}
	defer cleanup()

	summaries, err := store.ListRuns(ctx, opts.SessionID)
	if err != nil {
		return err
	}

	if len(summaries) == 0 {
		fmt.Println("No stored runs.")
		return nil
	}

	for _, summary := range summaries {
		status := "ok"
		if !summary.ContextMaintained {
			status = "drifted"
		}
		fmt.Printf("%s  %s  %d iterations  %s  %s\n",
			summary.ID, summary.CreatedAt, summary.TotalIterations, status,
			truncate(summary.OriginalPrompt, 60))
	}
	return nil
}

// readPromptFile reads one prompt per non-empty line.
func readPromptFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open prompt file: %w", err)
	}
	defer file.Close()

	var prompts []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			prompts = append(prompts, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read prompt file: %w", err)
	}
	return prompts, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
