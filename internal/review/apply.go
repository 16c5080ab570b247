package review

import (
	"context"
	"fmt"

	"github.com/jonathan/statute-enricher/internal/dates"
)

// DateUpdater applies one approved date to a source document within its batch.
type DateUpdater interface {
	UpdateDocumentDate(ctx context.Context, batch, documentID, date string) error
}

// ApplyReport accounts for one apply-approved pass.
type ApplyReport struct {
	Applied int      `json:"applied"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

// ApplyApproved applies every approved row's date back to its source document,
// keyed by document ID within the originating batch. Rows that are not
// approved, lack a document ID, or carry an invalid date are skipped; update
// failures are collected per row so one bad row does not stop the rest.
func ApplyApproved(ctx context.Context, updater DateUpdater, rows []Row) (*ApplyReport, error) {
	report := &ApplyReport{}

	for _, row := range rows {
		if row.ReviewStatus != StatusApproved {
			report.Skipped++
			continue
		}
		if row.DocumentID == "" {
			report.Skipped++
			report.Errors = append(report.Errors, "approved row with empty Document_ID skipped")
			continue
		}

		canonical, err := dates.Canonicalize(row.ExtractedDate)
		if err != nil {
			report.Skipped++
			report.Errors = append(report.Errors,
				fmt.Sprintf("document %s: invalid approved date %q: %v", row.DocumentID, row.ExtractedDate, err))
			continue
		}

		if err := updater.UpdateDocumentDate(ctx, row.Batch, row.DocumentID, canonical); err != nil {
			report.Errors = append(report.Errors,
				fmt.Sprintf("document %s: update failed: %v", row.DocumentID, err))
			continue
		}
		report.Applied++
	}

	return report, nil
}
