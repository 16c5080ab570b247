package types

import (
	"strconv"
	"strings"
)

// KeyKind tags the three ordering classes for section numbers.
type KeyKind int

// Ordering classes, in sort order: preamble first, numeric next, text last.
const (
	KindPreamble KeyKind = iota
	KindNumeric
	KindText
)

// SectionKey is the sort key derived from a section number. Exactly one of
// Num/Text is meaningful depending on Kind.
type SectionKey struct {
	Kind KeyKind
	Num  float64
	Text string
}

// KeyFor derives the sort key for a section number string.
// "preamble" (any case, surrounding whitespace ignored) sorts first, then
// anything that parses as an integer or float in ascending numeric order,
// then everything else case-insensitively lexically.
func KeyFor(number string) SectionKey {
	trimmed := strings.TrimSpace(number)
	if strings.EqualFold(trimmed, PreambleNumber) {
		return SectionKey{Kind: KindPreamble}
	}
	if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return SectionKey{Kind: KindNumeric, Num: n}
	}
	return SectionKey{Kind: KindText, Text: strings.ToLower(trimmed)}
}

// Compare returns -1, 0, or 1 under the total order: preamble < numeric < text,
// numeric keys by value, text keys lexically.
func (k SectionKey) Compare(o SectionKey) int {
	if k.Kind != o.Kind {
		if k.Kind < o.Kind {
			return -1
		}
		return 1
	}
	switch k.Kind {
	case KindNumeric:
		switch {
		case k.Num < o.Num:
			return -1
		case k.Num > o.Num:
			return 1
		}
		return 0
	case KindText:
		return strings.Compare(k.Text, o.Text)
	default:
		return 0
	}
}

// Key returns the sort key for this section's number.
func (s Section) Key() SectionKey {
	return KeyFor(s.Number)
}
