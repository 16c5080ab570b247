// Package main provides the entry point for the statute enrichment CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "statute_agent",
	Short: "Statute normalization and date enrichment pipeline",
	Long:  "Statute Agent normalizes raw legal-statute records into structured documents, splits full texts into sections, and enriches documents with canonical enactment dates, falling back to AI extraction with human review for dates the source fields do not carry.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
