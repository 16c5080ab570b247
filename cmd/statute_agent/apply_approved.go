package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/statute-enricher/internal/db"
	"github.com/jonathan/statute-enricher/internal/review"
)

var applyApprovedCmd = &cobra.Command{
	Use:   "apply-approved",
	Short: "Apply approved review rows back to the source documents",
	Long:  "Apply-approved reads a reviewed CSV and writes each approved row's date to its source document, keyed by document ID within the originating batch. Rows that are not approved, lack a document ID, or carry an implausible date are skipped and reported.",
	RunE:  runApplyApproved,
}

var (
	applyApprovedInput       string
	applyApprovedDatabaseURL string
)

func init() {
	applyApprovedCmd.Flags().StringVarP(&applyApprovedInput, "in", "i", "", "Path to reviewed CSV file (required)")
	applyApprovedCmd.Flags().StringVar(&applyApprovedDatabaseURL, "db-url", "", "Database URL (overrides DATABASE_URL env var)")

	if err := applyApprovedCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(applyApprovedCmd)
}

func runApplyApproved(_ *cobra.Command, _ []string) error {
	rows, err := review.ReadFile(applyApprovedInput)
	if err != nil {
		return fmt.Errorf("failed to read review file: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("review file %s has no rows", applyApprovedInput)
	}

	databaseURL := applyApprovedDatabaseURL
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

	report, err := review.ApplyApproved(ctx, database, rows)
	if err != nil {
		return fmt.Errorf("failed to apply approved rows: %w", err)
	}

	for _, msg := range report.Errors {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: %s\n", msg)
	}
	_, _ = fmt.Fprintf(os.Stdout, "Applied %d dates, skipped %d rows (%d errors)\n",
		report.Applied, report.Skipped, len(report.Errors))

	return nil
}
