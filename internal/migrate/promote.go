// Package migrate moves fields shared by every section of a statute up to the
// statute level and strips denylisted fields from both levels.
package migrate

import (
	"reflect"
	"sort"

	"github.com/jonathan/statute-enricher/internal/types"
)

// deniedFields are removed unconditionally at both levels. These are raw
// scrape leftovers (source URLs, HTML blobs, RAG content caches) that must
// never survive into a processed statute.
var deniedFields = map[string]bool{
	"Source_URL":  true,
	"source_url":  true,
	"HTML_Blob":   true,
	"html_raw":    true,
	"RAG_Content": true,
	"rag_content": true,
}

// PromoteCommonFields returns a statute in which every field present with an
// identical value in all sections has been removed from the sections and added
// at the statute level. Denylisted fields are dropped at both levels first.
// The returned bool reports whether anything changed; an unchanged statute is
// returned as-is so callers can skip the write.
//
// The operation is idempotent: a second run finds no common section fields
// because the first run already removed them.
func PromoteCommonFields(st types.Statute) (types.Statute, bool) {
	changed := false

	out := st
	out.Sections = make([]types.Section, len(st.Sections))
	copy(out.Sections, st.Sections)

	// Denylist sweep at the statute level.
	if len(out.Extra) > 0 {
		cleaned := copyMap(out.Extra)
		for field := range deniedFields {
			if _, ok := cleaned[field]; ok {
				delete(cleaned, field)
				changed = true
			}
		}
		out.Extra = cleaned
	}

	// Denylist sweep at the section level.
	for i, sec := range out.Sections {
		for field := range deniedFields {
			if _, ok := sec.Extra[field]; ok {
				sec.Extra = copyMap(sec.Extra)
				delete(sec.Extra, field)
				out.Sections[i] = sec
				changed = true
			}
		}
	}

	common := commonFields(out.Sections)
	if len(common) == 0 {
		return out, changed
	}

	if out.Extra == nil {
		out.Extra = make(map[string]any, len(common))
	} else {
		out.Extra = copyMap(out.Extra)
	}
	for _, field := range common {
		out.Extra[field] = out.Sections[len(out.Sections)-1].Extra[field]
	}
	for i, sec := range out.Sections {
		sec.Extra = copyMap(sec.Extra)
		for _, field := range common {
			delete(sec.Extra, field)
		}
		if len(sec.Extra) == 0 {
			sec.Extra = nil
		}
		out.Sections[i] = sec
	}

	return out, true
}

// commonFields returns the sorted names of fields present in every section
// with an exactly equal value across all of them.
func commonFields(sections []types.Section) []string {
	if len(sections) == 0 {
		return nil
	}

	var common []string
	for field, first := range sections[0].Extra {
		everywhere := true
		for _, sec := range sections[1:] {
			v, ok := sec.Extra[field]
			if !ok || !reflect.DeepEqual(v, first) {
				everywhere = false
				break
			}
		}
		if everywhere {
			common = append(common, field)
		}
	}
	sort.Strings(common)
	return common
}

func copyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
