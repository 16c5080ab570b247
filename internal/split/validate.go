package split

import (
	"fmt"

	"github.com/jonathan/statute-enricher/internal/types"
)

// Issue is one validation finding on a split result. Findings are collected
// rather than raised so the caller decides whether to retry or fail.
type Issue struct {
	SectionIndex int    `json:"section_index"` // -1 for document-level findings
	Field        string `json:"field"`
	Message      string `json:"message"`
}

func (i Issue) String() string {
	if i.SectionIndex < 0 {
		return i.Message
	}
	return fmt.Sprintf("section %d: %s", i.SectionIndex, i.Message)
}

// Validate checks a processed result: at least one section, every section with
// non-empty content and a non-empty number. Each violation yields exactly one
// issue; an empty slice means the result is valid.
func Validate(sections []types.Section) []Issue {
	var issues []Issue
	if len(sections) == 0 {
		issues = append(issues, Issue{
			SectionIndex: -1,
			Field:        "sections",
			Message:      "result has no sections",
		})
		return issues
	}

	for i, sec := range sections {
		if sec.Content == "" {
			issues = append(issues, Issue{
				SectionIndex: i,
				Field:        "content",
				Message:      "empty content",
			})
		}
		if sec.Number == "" {
			issues = append(issues, Issue{
				SectionIndex: i,
				Field:        "number",
				Message:      "empty section number",
			})
		}
	}
	return issues
}
