// Command verify_batches reports per-batch document counts and how many
// documents in each batch are still missing a canonical date.
//
// Usage:
//
//	go run cmd/tools/verify_batches/main.go
//
// Requires DATABASE_URL environment variable to be set.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/statute-enricher/internal/db"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		fmt.Fprintln(os.Stderr, "ERROR: DATABASE_URL environment variable not set")
		os.Exit(1)
	}

	ctx := context.Background()

	database, err := db.Connect(ctx, dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	batches, err := database.ListBatches(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to list batches: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("=== Batch Verification ===")
	fmt.Println()

	if len(batches) == 0 {
		fmt.Println("No batches found.")
		return
	}

	totalDocs := 0
	totalMissing := 0
	fmt.Printf("%-30s %10s %14s\n", "BATCH", "DOCUMENTS", "MISSING DATE")
	for _, batch := range batches {
		count, err := database.CountDocuments(ctx, batch)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: Failed to count documents in %s: %v\n", batch, err)
			os.Exit(1)
		}
		missing, err := database.CountMissingDate(ctx, batch)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: Failed to count missing dates in %s: %v\n", batch, err)
			os.Exit(1)
		}
		totalDocs += count
		totalMissing += missing
		fmt.Printf("%-30s %10d %14d\n", batch, count, missing)
	}

	fmt.Println()
	fmt.Printf("%d batches, %d documents, %d missing a date\n", len(batches), totalDocs, totalMissing)
}
