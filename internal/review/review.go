// Package review implements the human-in-the-loop exchange for AI-extracted
// dates: results go out as a CSV, a reviewer marks rows approved or rejected,
// and only approved rows are applied back to the source store.
package review

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jonathan/statute-enricher/internal/types"
)

// Review status values. Anything other than approved is never applied.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Columns is the fixed header of the review artifact.
var Columns = []string{
	"Statute_Name",
	"Document_ID",
	"Batch",
	"Extracted_Date",
	"Confidence",
	"Rationale",
	"Review_Status",
}

// Row is one reviewable extraction outcome.
type Row struct {
	StatuteName   string
	DocumentID    string
	Batch         string
	ExtractedDate string
	Confidence    float64
	Rationale     string
	ReviewStatus  string
}

// Export writes extraction results as a review CSV. Rows with errors or no
// extracted date are included too, so the reviewer sees the full run, but
// they start out rejected rather than pending.
func Export(w io.Writer, results []types.AIExtractionResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, r := range results {
		date := ""
		status := StatusRejected
		if r.ExtractedDate != nil {
			date = *r.ExtractedDate
			status = StatusPending
		}
		rationale := r.Rationale
		if r.Error != nil {
			rationale = "error: " + *r.Error
		}
		record := []string{
			r.StatuteName,
			r.DocumentID,
			r.Batch,
			date,
			strconv.FormatFloat(r.Confidence, 'f', 2, 64),
			rationale,
			status,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row for %s: %w", r.DocumentID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportFile writes the review CSV to a path.
func ExportFile(path string, results []types.AIExtractionResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create review file: %w", err)
	}
	defer f.Close()
	return Export(f, results)
}

// normalizeHeader maps a hand-edited column name onto its canonical form:
// trimmed, spaces collapsed to underscores, case-insensitive.
func normalizeHeader(h string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(h), " ", "_"))
}

// ReadRows parses a review CSV, tolerating reordered or hand-edited headers.
// Unknown columns are ignored; missing required columns are an error.
func ReadRows(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[normalizeHeader(h)] = i
	}
	for _, required := range []string{"document_id", "extracted_date", "review_status"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("review file missing required column %q", required)
		}
	}

	field := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []Row
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read review row: %w", err)
		}

		confidence, _ := strconv.ParseFloat(field(record, "confidence"), 64)
		rows = append(rows, Row{
			StatuteName:   field(record, "statute_name"),
			DocumentID:    field(record, "document_id"),
			Batch:         field(record, "batch"),
			ExtractedDate: field(record, "extracted_date"),
			Confidence:    confidence,
			Rationale:     field(record, "rationale"),
			ReviewStatus:  strings.ToLower(field(record, "review_status")),
		})
	}
	return rows, nil
}

// ReadFile parses a review CSV from a path.
func ReadFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open review file: %w", err)
	}
	defer f.Close()
	return ReadRows(f)
}
