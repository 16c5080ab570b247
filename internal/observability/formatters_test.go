package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/statute-enricher/internal/split"
	"github.com/jonathan/statute-enricher/internal/types"
)

func TestPrintStatute(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	st := &types.Statute{
		Name: "The Punjab Land Revenue Act 1967",
		Date: "04-Nov-1967",
		DateMeta: &types.DateMetadata{
			ExtractionMethod: types.ExtractionMethodAI,
			Confidence:       0.92,
		},
		Sections: []types.Section{
			{Number: "preamble", Title: "Preamble"},
			{Number: "1", Title: "Short title"},
			{Number: "2", Title: "Definitions"},
		},
	}

	p.PrintStatute(st)
	output := buf.String()

	assert.Contains(t, output, "STATUTE")
	assert.Contains(t, output, "Punjab Land Revenue")
	assert.Contains(t, output, "04-Nov-1967")
	assert.Contains(t, output, "ai (0.92)")
	assert.Contains(t, output, "Sections: 3")
	assert.Contains(t, output, "preamble")
}

func TestPrintStatute_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintStatute(nil)

	assert.Empty(t, buf.String())
}

func TestPrintStatute_MissingDate(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintStatute(&types.Statute{Name: "Undated Act"})

	assert.Contains(t, buf.String(), "(missing)")
}

func TestPrintJobSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	msg := "1 of 3 batches failed: batch_2"
	job := &types.EnrichmentJob{
		Mode:           types.ModeAll,
		Status:         types.JobStatusFailed,
		TotalDocuments: 120,
		Processed:      80,
		Found:          42,
		Errored:        3,
		FailedBatches:  []string{"batch_2"},
		ErrorMessage:   &msg,
	}

	p.PrintJobSummary(job)
	output := buf.String()

	assert.Contains(t, output, "ENRICHMENT JOB")
	assert.Contains(t, output, "failed")
	assert.Contains(t, output, "80 / 120")
	assert.Contains(t, output, "Found:     42")
	assert.Contains(t, output, "batch_2")
}

func TestPrintExtractionResults(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	date := "15-Aug-1947"
	errMsg := "model timed out"
	results := []types.AIExtractionResult{
		{DocumentID: "doc-1", ExtractedDate: &date, Confidence: 0.95, Rationale: "preamble cites the date"},
		{DocumentID: "doc-2"},
		{DocumentID: "doc-3", Error: &errMsg},
	}

	p.PrintExtractionResults(results)
	output := buf.String()

	assert.Contains(t, output, "AI DATE SEARCH RESULTS")
	assert.Contains(t, output, "doc-1")
	assert.Contains(t, output, "15-Aug-1947 (0.95)")
	assert.Contains(t, output, "not found")
	assert.Contains(t, output, "model timed out")
}

func TestPrintExtractionResults_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintExtractionResults(nil)

	assert.Empty(t, buf.String())
}

func TestPrintIssues_WithIssues(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	issues := []split.Issue{
		{SectionIndex: -1, Field: "sections", Message: "document has no sections"},
		{SectionIndex: 2, Field: "content", Message: "section content is empty"},
	}

	p.PrintIssues(issues)
	output := buf.String()

	assert.Contains(t, output, "VALIDATION ISSUES")
	assert.Contains(t, output, "document: sections")
	assert.Contains(t, output, "section 2: content")
}

func TestPrintIssues_NoIssues(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintIssues(nil)

	assert.Contains(t, buf.String(), "NO ISSUES FOUND")
}

func TestPrintBox_LongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	st := &types.Statute{
		Name: "A Very Long Statute Name That Should Be Truncated To Fit The Box",
	}

	p.PrintStatute(st)
	output := buf.String()

	assert.True(t, strings.Contains(output, "┌"))
	assert.True(t, strings.Contains(output, "└"))
	assert.True(t, strings.Contains(output, "│"))
}
