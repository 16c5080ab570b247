// Package normalize canonicalizes raw per-section records into grouped,
// deterministically ordered statute documents.
package normalize

import (
	"sort"
	"strings"
	"unicode"

	"github.com/jonathan/statute-enricher/internal/types"
)

// StatuteName canonicalizes a raw statute name: whitespace collapsed, special
// characters stripped except "- . ( )", and title-cased. Blank names map to
// the UNKNOWN sentinel so no record is ever dropped for lack of a name.
func StatuteName(raw string) string {
	cleaned := stripSpecial(raw)
	words := strings.Fields(cleaned)
	if len(words) == 0 {
		return types.UnknownStatuteName
	}
	for i, w := range words {
		words[i] = titleWord(w)
	}
	return strings.Join(words, " ")
}

// stripSpecial removes characters other than letters, digits, whitespace,
// and the retained punctuation set "- . ( )".
func stripSpecial(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r):
			sb.WriteRune(r)
		case r == '-' || r == '.' || r == '(' || r == ')':
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// titleWord uppercases the first letter of a word and lowercases the rest.
// Leading punctuation such as "(" is skipped when locating the first letter.
func titleWord(w string) string {
	runes := []rune(strings.ToLower(w))
	for i, r := range runes {
		if unicode.IsLetter(r) {
			runes[i] = unicode.ToUpper(r)
			break
		}
	}
	return string(runes)
}

// Normalize groups raw records by normalized statute name and returns one
// statute per group with sections in canonical order. Raw input is not
// mutated; statutes appear in order of first appearance of their name.
func Normalize(raw []types.RawRecord) []types.Statute {
	order := make([]string, 0)
	groups := make(map[string][]types.Section)

	for _, rec := range raw {
		name := StatuteName(rec.StatuteName)
		if _, seen := groups[name]; !seen {
			order = append(order, name)
		}
		groups[name] = append(groups[name], sectionFromRecord(rec))
	}

	statutes := make([]types.Statute, 0, len(order))
	for _, name := range order {
		sections := groups[name]
		SortSections(sections)
		statutes = append(statutes, types.Statute{
			Name:     name,
			Sections: sections,
		})
	}
	return statutes
}

// sectionFromRecord converts a raw record into a section, dropping the
// statute name and internal identifier from the section payload.
func sectionFromRecord(rec types.RawRecord) types.Section {
	sec := types.Section{
		Number:    rec.Number,
		Content:   rec.Content,
		Citations: rec.Citations,
	}
	if len(rec.Extra) > 0 {
		sec.Extra = make(map[string]any, len(rec.Extra))
		for k, v := range rec.Extra {
			sec.Extra[k] = v
		}
	}
	return sec
}

// SortSections orders sections in place: preamble first, numeric sections
// ascending, remaining sections lexically (case-insensitive). The sort is
// stable so equal keys keep their original relative order.
func SortSections(sections []types.Section) {
	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].Key().Compare(sections[j].Key()) < 0
	})
}
