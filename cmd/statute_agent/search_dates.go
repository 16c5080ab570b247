package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/statute-enricher/internal/aisearch"
	"github.com/jonathan/statute-enricher/internal/cache"
	"github.com/jonathan/statute-enricher/internal/db"
	"github.com/jonathan/statute-enricher/internal/llm"
	"github.com/jonathan/statute-enricher/internal/observability"
	"github.com/jonathan/statute-enricher/internal/types"
)

var searchDatesCmd = &cobra.Command{
	Use:   "search-dates",
	Short: "AI-search enactment dates for a batch's missing-date documents",
	Long:  "Search-dates finds every document in a batch whose canonical date is still empty, asks the model about a bounded sample of each document's opening sections, and records the results in a search session for later review. Source documents are not modified; use export-review and apply-approved to apply dates.",
	RunE:  runSearchDates,
}

var (
	searchDatesBatch       string
	searchDatesDatabaseURL string
	searchDatesAPIKey      string
	searchDatesTier        string
	searchDatesOutput      string
)

func init() {
	searchDatesCmd.Flags().StringVarP(&searchDatesBatch, "batch", "b", "", "Batch to search (required)")
	searchDatesCmd.Flags().StringVar(&searchDatesDatabaseURL, "db-url", "", "Database URL (overrides DATABASE_URL env var)")
	searchDatesCmd.Flags().StringVar(&searchDatesAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	searchDatesCmd.Flags().StringVar(&searchDatesTier, "tier", string(llm.TierStandard), "Model tier: lite or standard")
	searchDatesCmd.Flags().StringVarP(&searchDatesOutput, "out", "o", "", "Optional path to also dump results as JSON")

	if err := searchDatesCmd.MarkFlagRequired("batch"); err != nil {
		panic(fmt.Sprintf("failed to mark batch flag as required: %v", err))
	}

	rootCmd.AddCommand(searchDatesCmd)
}

func runSearchDates(_ *cobra.Command, _ []string) error {
	databaseURL := searchDatesDatabaseURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		return fmt.Errorf("database URL is required (set DATABASE_URL environment variable or use --db-url flag)")
	}

	apiKey := searchDatesAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("API key is required (set GEMINI_API_KEY environment variable or use --api-key flag)")
	}

	ctx := context.Background()

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	// Collect candidates: documents in the batch still missing a date
	cursor, err := database.FindMissingDateDocuments(ctx, searchDatesBatch)
	if err != nil {
		return fmt.Errorf("failed to find missing-date documents: %w", err)
	}
	var docs []aisearch.Document
	for cursor.Next() {
		id, doc := cursor.Document()
		docs = append(docs, aisearch.DocumentFromStatute(id, searchDatesBatch, doc))
	}
	if err := cursor.Err(); err != nil {
		cursor.Close()
		return fmt.Errorf("failed to read missing-date documents: %w", err)
	}
	cursor.Close()

	client, err := llm.NewClient(ctx, llm.DefaultConfig(), apiKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	engine := aisearch.NewEngine(client, cache.NewMemory())
	engine.Tier = llm.ModelTier(searchDatesTier)

	session := &types.SearchSession{
		Batch:  searchDatesBatch,
		Total:  len(docs),
		Status: types.JobStatusRunning,
	}
	if err := database.CreateSession(ctx, session); err != nil {
		return fmt.Errorf("failed to create search session: %w", err)
	}

	summary, err := engine.Search(ctx, docs, func(ev aisearch.ProgressEvent) {
		switch ev.Type {
		case aisearch.EventError:
			_, _ = fmt.Fprintf(os.Stderr, "error: %s: %s\n", ev.DocumentID, ev.Message)
		case aisearch.EventProcessing:
			_, _ = fmt.Fprintf(os.Stderr, "[%3.0f%%] %s\n", ev.Percent, ev.DocumentID)
		}
	})
	if err != nil {
		session.Status = types.JobStatusFailed
		_ = database.UpdateSession(context.WithoutCancel(ctx), session)
		return fmt.Errorf("search run failed: %w", err)
	}

	now := time.Now()
	session.Processed = summary.Processed
	session.Found = summary.Found
	session.Skipped = summary.Skipped
	session.Errored = summary.Errored
	session.Status = types.JobStatusCompleted
	session.Diagnostic = summary.Diagnostic
	session.CompletedAt = &now
	if err := database.UpdateSession(ctx, session); err != nil {
		return fmt.Errorf("failed to update search session: %w", err)
	}
	if err := database.SaveResults(ctx, session.ID, summary.Results); err != nil {
		return fmt.Errorf("failed to save search results: %w", err)
	}

	if searchDatesOutput != "" {
		jsonOutput, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal summary to JSON: %w", err)
		}
		if err := os.WriteFile(searchDatesOutput, jsonOutput, 0644); err != nil {
			return fmt.Errorf("failed to write summary to output file %s: %w", searchDatesOutput, err)
		}
	}

	observability.NewPrinter(os.Stdout).PrintExtractionResults(summary.Results)

	if summary.Diagnostic != "" {
		_, _ = fmt.Fprintf(os.Stdout, "Note: %s\n", summary.Diagnostic)
	}
	_, _ = fmt.Fprintf(os.Stdout, "Session %s: processed %d, found %d, skipped %d, errored %d\n",
		session.ID, summary.Processed, summary.Found, summary.Skipped, summary.Errored)

	return nil
}
