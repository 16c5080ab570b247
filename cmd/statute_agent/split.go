package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/statute-enricher/internal/observability"
	"github.com/jonathan/statute-enricher/internal/split"
	"github.com/jonathan/statute-enricher/internal/types"
)

var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "Split a statute's full text into structured sections",
	Long:  "Split detects section boundaries (numbered headers and 'Section N' keywords) in a statute's full text and produces structured sections whose concatenated content reproduces the input exactly. A document with no detectable boundaries becomes a single unsplit section.",
	RunE:  runSplit,
}

var (
	splitInputFile  string
	splitOutputFile string
	splitHTML       bool
	splitVerbose    bool
)

func init() {
	splitCmd.Flags().StringVarP(&splitInputFile, "in", "i", "", "Path to statute text file (required)")
	splitCmd.Flags().StringVarP(&splitOutputFile, "out", "o", "", "Path to output sections JSON file (required)")
	splitCmd.Flags().BoolVar(&splitHTML, "html", false, "Treat input as HTML and extract text first")
	splitCmd.Flags().BoolVarP(&splitVerbose, "verbose", "v", false, "Print validation issues for the split result")

	if err := splitCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}
	if err := splitCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(splitCmd)
}

func runSplit(_ *cobra.Command, _ []string) error {
	inputContent, err := os.ReadFile(splitInputFile)
	if err != nil {
		return fmt.Errorf("failed to read input file %s: %w", splitInputFile, err)
	}

	var sections []types.Section
	if splitHTML {
		sections, err = split.FromHTML(string(inputContent))
		if err != nil {
			return fmt.Errorf("failed to split HTML document: %w", err)
		}
	} else {
		sections = split.Split(string(inputContent))
	}

	issues := split.Validate(sections)
	if splitVerbose {
		observability.NewPrinter(os.Stdout).PrintIssues(issues)
	}

	jsonOutput, err := json.MarshalIndent(sections, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal sections to JSON: %w", err)
	}

	outputDir := filepath.Dir(splitOutputFile)
	if outputDir != "" && outputDir != "." {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
		}
	}

	if err := os.WriteFile(splitOutputFile, jsonOutput, 0644); err != nil {
		return fmt.Errorf("failed to write sections to output file %s: %w", splitOutputFile, err)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Successfully split document into %d sections to %s\n",
		len(sections), splitOutputFile)
	if len(issues) > 0 {
		_, _ = fmt.Fprintf(os.Stdout, "Warning: %d validation issues found (run with --verbose for details)\n", len(issues))
	}

	return nil
}
