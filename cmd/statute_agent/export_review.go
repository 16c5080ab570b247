package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/statute-enricher/internal/db"
	"github.com/jonathan/statute-enricher/internal/review"
)

var exportReviewCmd = &cobra.Command{
	Use:   "export-review",
	Short: "Export a search session's results as a review CSV",
	Long:  "Export-review writes a search session's AI extraction results to a CSV for human review. Rows with an extracted date start out pending; errored or empty results start out rejected. Mark rows approved and feed the file to apply-approved.",
	RunE:  runExportReview,
}

var (
	exportReviewSession     string
	exportReviewOutput      string
	exportReviewDatabaseURL string
)

func init() {
	exportReviewCmd.Flags().StringVarP(&exportReviewSession, "session", "s", "", "Search session ID (required)")
	exportReviewCmd.Flags().StringVarP(&exportReviewOutput, "out", "o", "", "Path to output review CSV file (required)")
	exportReviewCmd.Flags().StringVar(&exportReviewDatabaseURL, "db-url", "", "Database URL (overrides DATABASE_URL env var)")

	if err := exportReviewCmd.MarkFlagRequired("session"); err != nil {
		panic(fmt.Sprintf("failed to mark session flag as required: %v", err))
	}
	if err := exportReviewCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(exportReviewCmd)
}

func runExportReview(_ *cobra.Command, _ []string) error {
	sessionID, err := uuid.Parse(exportReviewSession)
	if err != nil {
		return fmt.Errorf("invalid session id: %w", err)
	}

	databaseURL := exportReviewDatabaseURL
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

	results, err := database.GetResults(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to load session results: %w", err)
	}
	if len(results) == 0 {
		return fmt.Errorf("session %s has no results to export", sessionID)
	}

	if err := review.ExportFile(exportReviewOutput, results); err != nil {
		return fmt.Errorf("failed to export review file: %w", err)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Successfully exported %d rows to %s\n", len(results), exportReviewOutput)

	return nil
}
