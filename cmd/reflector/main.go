// Package main provides the reflector CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/mkray/reflector/cli"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	provider  string
	modelName string
	verbose   bool
)

func main() {
	// Load .env file if present (ignore "file not found" errors)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
		}
	}

	rootCmd := &cobra.Command{
		Use:   "reflector",
		Short: "Iterative reflection loop for LLM responses",
		Long: `A CLI tool for improving LLM responses through iterative reflection.

Two flows available:
- run: validated multi-round loop with drift/quality checks and bounded recovery
- reflect: simple two-call reflect-then-improve flow`,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&provider, "provider", "p", "", "LLM provider (gemini, openai, anthropic, deepseek)")
	rootCmd.PersistentFlags().StringVar(&modelName, "model", "", "Model override for the selected provider")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show verbose output")

	// Add commands
	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(reflectCmd())
	rootCmd.AddCommand(batchCmd())
	rootCmd.AddCommand(compareCmd())
	rootCmd.AddCommand(historyCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func baseOptions() cli.Options {
	opts := cli.DefaultOptions()
	opts.Provider = provider
	opts.Model = modelName
	opts.Verbose = verbose
	return opts
}

func runCmd() *cobra.Command {
	var steps int
	var maxIter int
	var dbPath string
	var sessionID string

	cmd := &cobra.Command{
		Use:   "run [prompt]",
		Short: "Refine a response through the validated reflection loop",
		Long: `Refine a response through multiple validated reflection rounds.

Each round is scored for topical relevance and content quality; a round that
fails validation gets one stricter recovery attempt before being accepted.
The loop stops at the requested step count or the iteration ceiling.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := baseOptions()
			opts.Steps = steps
			opts.MaxIter = maxIter
			opts.DBPath = dbPath
			opts.SessionID = sessionID
			return cli.Run(context.Background(), args[0], opts)
		},
	}

	cmd.Flags().IntVarP(&steps, "steps", "s", 3, "Number of refinement rounds")
	cmd.Flags().IntVarP(&maxIter, "max-iter", "m", 5, "Maximum executed iterations")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite path for run history (optional)")
	cmd.Flags().StringVar(&sessionID, "session", "", "Session ID for run history")

	return cmd
}

func reflectCmd() *cobra.Command {
	var multi int

	cmd := &cobra.Command{
		Use:   "reflect [prompt]",
		Short: "Run the simple reflect-then-improve flow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Reflect(context.Background(), args[0], multi, baseOptions())
		},
	}

	cmd.Flags().IntVar(&multi, "multi", 0, "Chain this many reflect cycles (0 = single)")

	return cmd
}

func batchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch [file]",
		Short: "Reflect on each prompt in a file, one per line",
		Long: `Apply the simple reflect-then-improve flow to every prompt in a file.

Prompts are processed in input order. A failure on any prompt aborts the
whole batch.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Batch(context.Background(), args[0], baseOptions())
		},
	}
}

func compareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare [initial-file] [improved-file]",
		Short: "Analyze the differences between two responses",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Compare(context.Background(), args[0], args[1], baseOptions())
		},
	}
}

func historyCmd() *cobra.Command {
	var dbPath string
	var sessionID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored refinement runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := baseOptions()
			opts.DBPath = dbPath
			opts.SessionID = sessionID
			return cli.History(context.Background(), opts)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", ".reflector/reflector.db", "SQLite path for run history")
	cmd.Flags().StringVar(&sessionID, "session", "", "Filter by session ID")

	return cmd
}
