package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/statute-enricher/internal/normalize"
	"github.com/jonathan/statute-enricher/internal/observability"
	"github.com/jonathan/statute-enricher/internal/schemas"
	"github.com/jonathan/statute-enricher/internal/types"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Group raw statute records into normalized statute documents",
	Long:  "Normalize reads a JSON array of raw per-section records, normalizes statute names, groups sections under their statute, and sorts sections so the preamble comes first, numeric sections follow in order, and text-numbered sections come last.",
	RunE:  runNormalize,
}

var (
	normalizeInputFile  string
	normalizeOutputFile string
	normalizeVerbose    bool
)

func init() {
	normalizeCmd.Flags().StringVarP(&normalizeInputFile, "in", "i", "", "Path to raw records JSON file (required)")
	normalizeCmd.Flags().StringVarP(&normalizeOutputFile, "out", "o", "", "Path to output statutes JSON file (required)")
	normalizeCmd.Flags().BoolVarP(&normalizeVerbose, "verbose", "v", false, "Print each normalized statute")

	if err := normalizeCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}
	if err := normalizeCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(_ *cobra.Command, _ []string) error {
	// 1. Load raw records
	inputContent, err := os.ReadFile(normalizeInputFile)
	if err != nil {
		return fmt.Errorf("failed to read input file %s: %w", normalizeInputFile, err)
	}

	var records []json.RawMessage
	if err := json.Unmarshal(inputContent, &records); err != nil {
		return fmt.Errorf("failed to unmarshal raw records JSON: %w", err)
	}

	// 2. Validate each record against the raw_record schema (non-fatal on
	// schema loading problems, fatal on records that do not conform)
	if schemas.ResolveSchemaPath(schemas.RawRecordSchema) != "" {
		for i, rec := range records {
			if err := schemas.ValidateBytes(schemas.RawRecordSchema, rec); err != nil {
				var validationErr *schemas.ValidationError
				if errors.As(err, &validationErr) {
					return fmt.Errorf("record %d does not validate against schema: %w", i, err)
				}
				_, _ = fmt.Fprintf(os.Stderr, "Warning: Could not validate record %d against schema: %v\n", i, err)
				break
			}
		}
	}

	raw, err := decodeRawRecords(inputContent)
	if err != nil {
		return err
	}

	// 3. Normalize and group
	statutes := normalize.Normalize(raw)

	// 4. Marshal to JSON with indentation
	jsonOutput, err := json.MarshalIndent(statutes, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal statutes to JSON: %w", err)
	}

	// Ensure output directory exists
	outputDir := filepath.Dir(normalizeOutputFile)
	if outputDir != "" && outputDir != "." {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
		}
	}

	// 5. Write to output file
	if err := os.WriteFile(normalizeOutputFile, jsonOutput, 0644); err != nil {
		return fmt.Errorf("failed to write statutes to output file %s: %w", normalizeOutputFile, err)
	}

	if normalizeVerbose {
		printer := observability.NewPrinter(os.Stdout)
		for i := range statutes {
			printer.PrintStatute(&statutes[i])
		}
	}

	_, _ = fmt.Fprintf(os.Stdout, "Successfully normalized %d records into %d statutes to %s\n",
		len(raw), len(statutes), normalizeOutputFile)

	return nil
}

func decodeRawRecords(data []byte) ([]types.RawRecord, error) {
	var raw []types.RawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal raw records JSON: %w", err)
	}
	return raw, nil
}
