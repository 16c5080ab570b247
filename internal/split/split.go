// Package split detects section boundaries in unsegmented statute text and
// produces discrete section records.
package split

import (
	"regexp"
	"strings"

	"github.com/jonathan/statute-enricher/internal/types"
)

// UnsplitType marks the single-section fallback produced when no boundary
// pattern is found in the input.
const UnsplitType = "unsplit"

// FullTextTitle is the title given to the unsplit fallback section.
const FullTextTitle = "Full Text"

// Two recognized header forms at the start of a line:
// "12. Short title and commencement" and "Section 12".
var (
	numberedHeaderRe = regexp.MustCompile(`^(\d+)\.\s+(.+)$`)
	sectionHeaderRe  = regexp.MustCompile(`(?i)^Section\s+(\d+)\b`)
)

type boundary struct {
	offset int // byte offset of the header line within the input
	number string
	title  string
}

// Split scans text for section boundaries and returns one section per
// boundary. Each section's content is the exact input substring from its
// header line up to the next boundary, so concatenating all contents in order
// reproduces the input byte-for-byte. Text preceding the first boundary
// becomes a preamble section. With no boundaries at all, the whole input
// becomes a single unsplit section numbered "1".
func Split(text string) []types.Section {
	if text == "" {
		return nil
	}

	boundaries := findBoundaries(text)
	if len(boundaries) == 0 {
		return []types.Section{{
			Number:  "1",
			Type:    UnsplitType,
			Title:   FullTextTitle,
			Content: text,
		}}
	}

	var sections []types.Section
	if boundaries[0].offset > 0 {
		sections = append(sections, types.Section{
			Number:  types.PreambleNumber,
			Content: text[:boundaries[0].offset],
		})
	}
	for i, b := range boundaries {
		end := len(text)
		if i+1 < len(boundaries) {
			end = boundaries[i+1].offset
		}
		sections = append(sections, types.Section{
			Number:  b.number,
			Title:   b.title,
			Content: text[b.offset:end],
		})
	}
	return sections
}

// findBoundaries walks the input line by line, recording the byte offset of
// every line that matches a header form.
func findBoundaries(text string) []boundary {
	var boundaries []boundary
	offset := 0
	for offset <= len(text) {
		lineEnd := strings.IndexByte(text[offset:], '\n')
		var line string
		if lineEnd < 0 {
			line = text[offset:]
		} else {
			line = text[offset : offset+lineEnd]
		}

		trimmed := strings.TrimRight(line, "\r")
		if m := numberedHeaderRe.FindStringSubmatch(trimmed); m != nil {
			boundaries = append(boundaries, boundary{offset: offset, number: m[1], title: strings.TrimSpace(m[2])})
		} else if m := sectionHeaderRe.FindStringSubmatch(trimmed); m != nil {
			boundaries = append(boundaries, boundary{offset: offset, number: m[1]})
		}

		if lineEnd < 0 {
			break
		}
		offset += lineEnd + 1
	}
	return boundaries
}
