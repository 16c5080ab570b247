package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/statute-enricher/internal/aisearch"
	"github.com/jonathan/statute-enricher/internal/cache"
	"github.com/jonathan/statute-enricher/internal/db"
	"github.com/jonathan/statute-enricher/internal/llm"
	"github.com/jonathan/statute-enricher/internal/observability"
	"github.com/jonathan/statute-enricher/internal/pipeline"
	"github.com/jonathan/statute-enricher/internal/types"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Run the date enrichment pipeline over one or all batches",
	Long:  "Enrich promotes common section fields to the statute level, merges legacy date fields into the canonical date with primary-over-secondary precedence, and falls back to AI date extraction for documents still missing a date. Job state is persisted after every document so an interrupted run is accountable.",
	RunE:  runEnrich,
}

var (
	enrichMode          string
	enrichBatch         string
	enrichBatchPrefix   string
	enrichDryRun        bool
	enrichMetadata      bool
	enrichMinConfidence float64
	enrichNoAI          bool
	enrichDatabaseURL   string
	enrichAPIKey        string
	enrichVerbose       bool
)

func init() {
	enrichCmd.Flags().StringVarP(&enrichMode, "mode", "m", types.ModeSingle, "Run mode: single or all")
	enrichCmd.Flags().StringVarP(&enrichBatch, "batch", "b", "", "Batch name (required in single mode)")
	enrichCmd.Flags().StringVar(&enrichBatchPrefix, "batch-prefix", pipeline.DefaultBatchPrefix, "Batch naming convention matched in all mode")
	enrichCmd.Flags().BoolVar(&enrichDryRun, "dry-run", false, "Run every transformation but suppress writes")
	enrichCmd.Flags().BoolVar(&enrichMetadata, "metadata", false, "Attach provenance metadata to enriched documents")
	enrichCmd.Flags().Float64Var(&enrichMinConfidence, "min-confidence", pipeline.DefaultMinConfidence, "Confidence threshold for applying AI-extracted dates")
	enrichCmd.Flags().BoolVar(&enrichNoAI, "no-ai", false, "Disable the AI date fallback")
	enrichCmd.Flags().StringVar(&enrichDatabaseURL, "db-url", "", "Database URL (overrides DATABASE_URL env var)")
	enrichCmd.Flags().StringVar(&enrichAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	enrichCmd.Flags().BoolVarP(&enrichVerbose, "verbose", "v", false, "Print per-document progress")

	rootCmd.AddCommand(enrichCmd)
}

func runEnrich(_ *cobra.Command, _ []string) error {
	databaseURL := enrichDatabaseURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		return fmt.Errorf("database URL is required (set DATABASE_URL environment variable or use --db-url flag)")
	}

	ctx := context.Background()

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	var engine *aisearch.Engine
	if !enrichNoAI {
		apiKey := enrichAPIKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			return fmt.Errorf("API key is required for the AI fallback (set GEMINI_API_KEY, use --api-key, or pass --no-ai)")
		}

		client, err := llm.NewClient(ctx, llm.DefaultConfig(), apiKey)
		if err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
		defer func() { _ = client.Close() }()

		engine = aisearch.NewEngine(client, cache.NewMemory())
	}

	orchestrator := &pipeline.Orchestrator{
		Store:  pipeline.NewDBStore(database),
		Jobs:   database,
		Engine: engine,
	}

	opts := pipeline.RunOptions{
		Mode:             enrichMode,
		Batch:            enrichBatch,
		BatchPrefix:      enrichBatchPrefix,
		DryRun:           enrichDryRun,
		GenerateMetadata: enrichMetadata,
		MinConfidence:    enrichMinConfidence,
		OnProgress: func(ev pipeline.ProgressEvent) {
			switch ev.Stage {
			case pipeline.StageError:
				_, _ = fmt.Fprintf(os.Stderr, "error: %s\n", ev.Message)
			case pipeline.StageDocument:
				if enrichVerbose {
					_, _ = fmt.Fprintf(os.Stderr, "[%3.0f%%] %s/%s\n", ev.Percent, ev.Batch, ev.DocumentID)
				}
			case pipeline.StageBatchDone:
				_, _ = fmt.Fprintf(os.Stderr, "batch %s done (%d/%d documents)\n", ev.Batch, ev.Processed, ev.Total)
			}
		},
	}

	job, err := orchestrator.Run(ctx, opts)
	if err != nil {
		return fmt.Errorf("enrichment run failed: %w", err)
	}

	observability.NewPrinter(os.Stdout).PrintJobSummary(job)

	if job.Status == types.JobStatusFailed {
		return fmt.Errorf("enrichment completed with failed batches: %v", job.FailedBatches)
	}
	return nil
}
