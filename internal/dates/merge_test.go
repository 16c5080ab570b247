package dates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/statute-enricher/internal/types"
)

func statuteWith(extra map[string]any) types.Statute {
	return types.Statute{Name: "Test Act", Extra: extra}
}

func TestMergePrecedence(t *testing.T) {
	tests := []struct {
		name          string
		extra         map[string]any
		wantDate      string
		wantMethod    string
		wantOriginals []string
	}{
		{
			name:          "primary wins over secondary",
			extra:         map[string]any{"Date": "01-Jan-2020", "Promulgation_Date": "02-Feb-2020"},
			wantDate:      "01-Jan-2020",
			wantMethod:    MethodPrimary,
			wantOriginals: []string{"Date", "Promulgation_Date"},
		},
		{
			name:          "secondary used when primary empty",
			extra:         map[string]any{"Date": "", "Promulgation_Date": "05-May-2021"},
			wantDate:      "05-May-2021",
			wantMethod:    MethodSecondary,
			wantOriginals: []string{"Promulgation_Date"},
		},
		{
			name:       "both empty",
			extra:      map[string]any{"Date": "", "Promulgation_Date": ""},
			wantDate:   "",
			wantMethod: MethodNone,
		},
		{
			name:       "both absent",
			extra:      nil,
			wantDate:   "",
			wantMethod: MethodNone,
		},
		{
			name:          "only primary present",
			extra:         map[string]any{"Date": "15-Aug-1947"},
			wantDate:      "15-Aug-1947",
			wantMethod:    MethodPrimary,
			wantOriginals: []string{"Date"},
		},
		{
			name:          "whitespace-only primary treated as empty",
			extra:         map[string]any{"Date": "   ", "Promulgation_Date": "03-Mar-1973"},
			wantDate:      "03-Mar-1973",
			wantMethod:    MethodSecondary,
			wantOriginals: []string{"Promulgation_Date"},
		},
		{
			name:       "non-string date field treated as absent",
			extra:      map[string]any{"Date": 1984},
			wantDate:   "",
			wantMethod: MethodNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Merge(statuteWith(tt.extra))

			assert.Equal(t, tt.wantDate, out.Date)
			require.NotNil(t, out.DateMeta)
			assert.Equal(t, tt.wantMethod, out.DateMeta.ExtractionMethod)
			assert.Equal(t, tt.wantOriginals, out.DateMeta.OriginalFields)

			// The secondary field is absent from every output, and the primary
			// legacy field never survives as a loose extra either.
			assert.NotContains(t, out.Extra, SecondaryField)
			assert.NotContains(t, out.Extra, PrimaryField)
		})
	}
}

func TestMergeKeepsExistingCanonicalDate(t *testing.T) {
	st := types.Statute{
		Name: "Test Act",
		Date: "15-Aug-1947",
		DateMeta: &types.DateMetadata{
			ExtractionMethod: "ai",
			Confidence:       0.95,
		},
	}

	out := Merge(st)

	assert.Equal(t, "15-Aug-1947", out.Date, "a second merge pass must not erase the date")
	assert.Equal(t, st.DateMeta, out.DateMeta, "provenance from the first pass survives")
}

func TestMergeCanonicalDateWinsOverLegacyFields(t *testing.T) {
	st := statuteWith(map[string]any{"Date": "01-Jan-2020"})
	st.Date = "15-Aug-1947"

	out := Merge(st)

	assert.Equal(t, "15-Aug-1947", out.Date)
	assert.NotContains(t, out.Extra, PrimaryField, "legacy fields are still stripped")
}

func TestMergeRejectsInvalidLegacyDates(t *testing.T) {
	tests := []struct {
		name  string
		extra map[string]any
	}{
		{
			name:  "garbage string",
			extra: map[string]any{"Date": "99-XX-9999"},
		},
		{
			name:  "implausibly old year",
			extra: map[string]any{"Date": "01-Jan-1600"},
		},
		{
			name:  "invalid primary does not fall through to secondary",
			extra: map[string]any{"Date": "not a date", "Promulgation_Date": "05-May-2021"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Merge(statuteWith(tt.extra))

			assert.Empty(t, out.Date, "an invalid value is never accepted as canonical")
			require.NotNil(t, out.DateMeta)
			assert.Equal(t, MethodNone, out.DateMeta.ExtractionMethod)
			assert.NotEmpty(t, out.DateMeta.Rationale, "the rejection reason is recorded")
			assert.NotContains(t, out.Extra, PrimaryField)
			assert.NotContains(t, out.Extra, SecondaryField)
		})
	}
}

func TestMergeNormalizesInputLayouts(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "long form", raw: "14 August 1947", want: "14-Aug-1947"},
		{name: "iso", raw: "1947-08-14", want: "14-Aug-1947"},
		{name: "single-digit day", raw: "5-May-2021", want: "05-May-2021"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Merge(statuteWith(map[string]any{"Date": tt.raw}))
			assert.Equal(t, tt.want, out.Date)
		})
	}
}

func TestMergePreservesOtherExtras(t *testing.T) {
	out := Merge(statuteWith(map[string]any{
		"Date":     "01-Jan-2020",
		"Province": "Punjab",
	}))
	assert.Equal(t, map[string]any{"Province": "Punjab"}, out.Extra)
}

func TestMergeDoesNotMutateInput(t *testing.T) {
	st := statuteWith(map[string]any{"Date": "01-Jan-2020", "Promulgation_Date": "02-Feb-2020"})
	_ = Merge(st)
	assert.Equal(t, "01-Jan-2020", st.Extra["Date"])
	assert.Equal(t, "02-Feb-2020", st.Extra["Promulgation_Date"])
	assert.Empty(t, st.Date)
}
