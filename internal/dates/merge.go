// Package dates reconciles legacy enactment-date fields into one canonical
// date and validates date plausibility.
package dates

import (
	"strings"

	"github.com/jonathan/statute-enricher/internal/types"
)

// Legacy field names found on raw statute documents. PrimaryField wins when
// both are present.
const (
	PrimaryField   = "Date"
	SecondaryField = "Promulgation_Date"
)

// Extraction methods recorded in date metadata.
const (
	MethodPrimary   = "primary_field"
	MethodSecondary = "secondary_field"
	MethodNone      = "none"
)

// Merge reconciles the two legacy date fields on a statute document into the
// canonical Date field. A document that already carries a canonical date keeps
// it untouched; otherwise precedence is primary if non-empty, else secondary,
// else empty. The selected value must pass Canonicalize before it is accepted,
// and is stored in DD-Mon-YYYY form; an unparseable or implausible value falls
// back to an empty canonical date. Both legacy fields are removed from the
// output unconditionally, so a merged statute never carries a duplicate date
// field. Merge is total: every combination of present/absent/empty inputs is
// handled, and the input is not mutated.
func Merge(st types.Statute) types.Statute {
	out := st
	out.Extra = copyWithout(st.Extra, PrimaryField, SecondaryField)

	// Already enriched (a prior run, or an approved review row). The legacy
	// fields are still stripped, but the date and its provenance stand.
	if st.Date != "" {
		return out
	}

	primary := stringField(st.Extra, PrimaryField)
	secondary := stringField(st.Extra, SecondaryField)

	candidate := ""
	meta := &types.DateMetadata{ExtractionMethod: MethodNone}
	switch {
	case primary != "":
		candidate = primary
		meta.ExtractionMethod = MethodPrimary
	case secondary != "":
		candidate = secondary
		meta.ExtractionMethod = MethodSecondary
	}

	if primary != "" {
		meta.OriginalFields = append(meta.OriginalFields, PrimaryField)
	}
	if secondary != "" {
		meta.OriginalFields = append(meta.OriginalFields, SecondaryField)
	}

	out.Date = ""
	if candidate != "" {
		canonical, err := Canonicalize(candidate)
		if err != nil {
			meta.ExtractionMethod = MethodNone
			meta.Rationale = err.Error()
		} else {
			out.Date = canonical
		}
	}

	out.DateMeta = meta
	return out
}

// stringField reads a field as a trimmed string; non-string values count as absent.
func stringField(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	if s, ok := m[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func copyWithout(m map[string]any, drop ...string) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	for _, k := range drop {
		delete(out, k)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
