// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/statute-enricher/internal/split"
	"github.com/jonathan/statute-enricher/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintStatute outputs a human-readable summary of a normalized statute.
func (p *Printer) PrintStatute(st *types.Statute) {
	if st == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Name:     %s\n", st.Name))
	if st.Date != "" {
		sb.WriteString(fmt.Sprintf("Date:     %s\n", st.Date))
	} else {
		sb.WriteString("Date:     (missing)\n")
	}
	if st.DateMeta != nil {
		sb.WriteString(fmt.Sprintf("Method:   %s (%.2f)\n", st.DateMeta.ExtractionMethod, st.DateMeta.Confidence))
	}
	sb.WriteString(fmt.Sprintf("Sections: %d\n", len(st.Sections)))

	if len(st.Sections) > 0 {
		sb.WriteString("\n")
		count := min(len(st.Sections), maxItemsToShow)
		for i := 0; i < count; i++ {
			sec := st.Sections[i]
			label := sec.Number
			if sec.Title != "" {
				label = fmt.Sprintf("%s  %s", sec.Number, sec.Title)
			}
			sb.WriteString(fmt.Sprintf("  • %s\n", label))
		}
		if len(st.Sections) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(st.Sections)-maxItemsToShow))
		}
	}

	p.printBox("STATUTE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintJobSummary outputs the terminal state of an enrichment job.
func (p *Printer) PrintJobSummary(job *types.EnrichmentJob) {
	if job == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Job:       %s\n", job.ID))
	sb.WriteString(fmt.Sprintf("Mode:      %s\n", job.Mode))
	sb.WriteString(fmt.Sprintf("Status:    %s\n", job.Status))
	if job.DryRun {
		sb.WriteString("Dry run:   yes\n")
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Processed: %d / %d\n", job.Processed, job.TotalDocuments))
	sb.WriteString(fmt.Sprintf("Found:     %d\n", job.Found))
	sb.WriteString(fmt.Sprintf("Errored:   %d\n", job.Errored))

	if len(job.FailedBatches) > 0 {
		sb.WriteString("\nFailed batches:\n")
		count := min(len(job.FailedBatches), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  ⚠ %s\n", job.FailedBatches[i]))
		}
		if len(job.FailedBatches) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(job.FailedBatches)-maxItemsToShow))
		}
	}
	if job.ErrorMessage != nil {
		msg := *job.ErrorMessage
		if len(msg) > 50 {
			msg = msg[:47] + "..."
		}
		sb.WriteString(fmt.Sprintf("\nError: %s\n", msg))
	}

	p.printBox("ENRICHMENT JOB", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintExtractionResults outputs AI date search results with confidence scores.
func (p *Printer) PrintExtractionResults(results []types.AIExtractionResult) {
	if len(results) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total results: %d\n\n", len(results)))

	count := min(len(results), maxItemsToShow)
	for i := 0; i < count; i++ {
		res := results[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, res.DocumentID))
		switch {
		case res.Error != nil:
			sb.WriteString(fmt.Sprintf("    ⚠ %s\n", *res.Error))
		case res.ExtractedDate != nil:
			sb.WriteString(fmt.Sprintf("    Date: %s (%.2f)\n", *res.ExtractedDate, res.Confidence))
		default:
			sb.WriteString("    Date: not found\n")
		}
		if res.Rationale != "" {
			rationale := res.Rationale
			if len(rationale) > 45 {
				rationale = rationale[:42] + "..."
			}
			sb.WriteString(fmt.Sprintf("    %s\n", rationale))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(results) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more results", len(results)-maxItemsToShow))
	}

	p.printBox("AI DATE SEARCH RESULTS", sb.String())
}

// PrintIssues outputs structural validation issues found after splitting.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintIssues(issues []split.Issue) {
	if len(issues) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ NO ISSUES FOUND")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d issues:\n\n", len(issues)))

	for i, issue := range issues {
		where := "document"
		if issue.SectionIndex >= 0 {
			where = fmt.Sprintf("section %d", issue.SectionIndex)
		}
		msg := issue.Message
		if len(msg) > 45 {
			msg = msg[:42] + "..."
		}
		sb.WriteString(fmt.Sprintf("⚠ %s: %s\n", where, issue.Field))
		sb.WriteString(fmt.Sprintf("  %s\n", msg))
		if i < len(issues)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("VALIDATION ISSUES", sb.String())
}
