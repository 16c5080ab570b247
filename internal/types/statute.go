// Package types provides type definitions for statute documents used throughout the statute-enricher system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
)

// UnknownStatuteName is the sentinel bucket for records that carry no usable name.
const UnknownStatuteName = "UNKNOWN"

// PreambleNumber is the reserved section number that always sorts first.
const PreambleNumber = "preamble"

// Statute represents one named legal instrument with its ordered sections.
// Recognized fields live on the struct; everything else a raw document carried
// is preserved in Extra so a read-modify-write round trip loses nothing.
type Statute struct {
	Name     string
	Sections []Section
	Date     string
	DateMeta *DateMetadata
	Extra    map[string]any
}

// DateMetadata records how the canonical date was obtained
type DateMetadata struct {
	ExtractionMethod string   `json:"extraction_method"`
	OriginalFields   []string `json:"original_fields,omitempty"`
	Confidence       float64  `json:"confidence,omitempty"`
	Rationale        string   `json:"rationale,omitempty"`
}

// Section represents one addressable clause or article within a statute
type Section struct {
	Number    string
	Type      string // "unsplit" marks a single-section fallback
	Title     string
	Content   string
	Citations []string
	Extra     map[string]any
}

// statuteKnownKeys are the JSON keys bound to struct fields rather than Extra
var statuteKnownKeys = map[string]bool{
	"name":          true,
	"sections":      true,
	"date":          true,
	"date_metadata": true,
}

var sectionKnownKeys = map[string]bool{
	"number":     true,
	"type":       true,
	"title":      true,
	"content":    true,
	"definition": true, // legacy alias for content
	"citations":  true,
}

// MarshalJSON folds Extra back into the top-level object alongside the
// recognized fields. Extra keys never shadow recognized keys.
func (s Statute) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.Extra)+4)
	for k, v := range s.Extra {
		if !statuteKnownKeys[k] {
			out[k] = v
		}
	}
	out["name"] = s.Name
	out["sections"] = s.Sections
	out["date"] = s.Date
	if s.DateMeta != nil {
		out["date_metadata"] = s.DateMeta
	}
	return json.Marshal(out)
}

// UnmarshalJSON splits an arbitrary document into recognized fields plus Extra.
func (s *Statute) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*s = Statute{}
	for key, val := range raw {
		switch key {
		case "name":
			if err := json.Unmarshal(val, &s.Name); err != nil {
				return err
			}
		case "sections":
			if err := json.Unmarshal(val, &s.Sections); err != nil {
				return err
			}
		case "date":
			if err := json.Unmarshal(val, &s.Date); err != nil {
				return err
			}
		case "date_metadata":
			if err := json.Unmarshal(val, &s.DateMeta); err != nil {
				return err
			}
		default:
			var v any
			if err := json.Unmarshal(val, &v); err != nil {
				return err
			}
			if s.Extra == nil {
				s.Extra = make(map[string]any)
			}
			s.Extra[key] = v
		}
	}
	return nil
}

// MarshalJSON emits "content" for both current and legacy-definition sections.
func (s Section) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.Extra)+4)
	for k, v := range s.Extra {
		if !sectionKnownKeys[k] {
			out[k] = v
		}
	}
	out["number"] = s.Number
	out["content"] = s.Content
	if s.Type != "" {
		out["type"] = s.Type
	}
	if s.Title != "" {
		out["title"] = s.Title
	}
	if len(s.Citations) > 0 {
		out["citations"] = s.Citations
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts both "content" and the legacy "definition" key.
func (s *Section) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*s = Section{}
	var definition string
	for key, val := range raw {
		switch key {
		case "number":
			if err := unmarshalFlexibleString(val, &s.Number); err != nil {
				return err
			}
		case "type":
			if err := json.Unmarshal(val, &s.Type); err != nil {
				return err
			}
		case "title":
			if err := json.Unmarshal(val, &s.Title); err != nil {
				return err
			}
		case "content":
			if err := json.Unmarshal(val, &s.Content); err != nil {
				return err
			}
		case "definition":
			if err := json.Unmarshal(val, &definition); err != nil {
				return err
			}
		case "citations":
			if err := json.Unmarshal(val, &s.Citations); err != nil {
				return err
			}
		default:
			var v any
			if err := json.Unmarshal(val, &v); err != nil {
				return err
			}
			if s.Extra == nil {
				s.Extra = make(map[string]any)
			}
			s.Extra[key] = v
		}
	}
	if s.Content == "" && definition != "" {
		s.Content = definition
	}
	return nil
}

// unmarshalFlexibleString accepts JSON strings and bare numbers for fields
// that source documents store inconsistently (section numbers in particular).
func unmarshalFlexibleString(data json.RawMessage, dst *string) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, dst)
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*dst = n.String()
	return nil
}

// RawRecord is one per-section document as it arrives from the source store,
// before grouping into statutes.
type RawRecord struct {
	ID          string
	StatuteName string
	Number      string
	Content     string
	Citations   []string
	Extra       map[string]any
}

var rawRecordKnownKeys = map[string]bool{
	"_id":          true,
	"id":           true,
	"statute_name": true,
	"number":       true,
	"content":      true,
	"definition":   true,
	"citations":    true,
}

// UnmarshalJSON accepts "_id" or "id" for the identifier and "definition" as a
// legacy alias for content; everything unrecognized lands in Extra.
func (r *RawRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = RawRecord{}
	var definition string
	for key, val := range raw {
		switch key {
		case "_id", "id":
			if err := unmarshalFlexibleString(val, &r.ID); err != nil {
				return err
			}
		case "statute_name":
			if err := json.Unmarshal(val, &r.StatuteName); err != nil {
				return err
			}
		case "number":
			if err := unmarshalFlexibleString(val, &r.Number); err != nil {
				return err
			}
		case "content":
			if err := json.Unmarshal(val, &r.Content); err != nil {
				return err
			}
		case "definition":
			if err := json.Unmarshal(val, &definition); err != nil {
				return err
			}
		case "citations":
			if err := json.Unmarshal(val, &r.Citations); err != nil {
				return err
			}
		default:
			var v any
			if err := json.Unmarshal(val, &v); err != nil {
				return err
			}
			if r.Extra == nil {
				r.Extra = make(map[string]any)
			}
			r.Extra[key] = v
		}
	}
	if r.Content == "" && definition != "" {
		r.Content = definition
	}
	return nil
}

// MarshalJSON is the inverse of UnmarshalJSON; the identifier is emitted as "_id".
func (r RawRecord) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Extra)+4)
	for k, v := range r.Extra {
		if !rawRecordKnownKeys[k] {
			out[k] = v
		}
	}
	if r.ID != "" {
		out["_id"] = r.ID
	}
	out["statute_name"] = r.StatuteName
	out["number"] = r.Number
	out["content"] = r.Content
	if len(r.Citations) > 0 {
		out["citations"] = r.Citations
	}
	return json.Marshal(out)
}
