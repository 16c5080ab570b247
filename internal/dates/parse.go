package dates

import (
	"fmt"
	"strings"
	"time"
)

// CanonicalLayout is the storage form for enactment dates: DD-Mon-YYYY.
const CanonicalLayout = "02-Jan-2006"

// MinPlausibleYear is the oldest enactment year accepted. Statutes in the
// corpus go back to colonial-era instruments; anything earlier is a parse
// artifact, not a real date.
const MinPlausibleYear = 1700

// inputLayouts are the date shapes observed across source documents, tried in order.
var inputLayouts = []string{
	CanonicalLayout,
	"2-Jan-2006",
	"02 January 2006",
	"2 January 2006",
	"January 2, 2006",
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
}

// Parse parses a raw date string into a time value, trying the known source
// layouts. Returns an error when no layout matches.
func Parse(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("empty date string")
	}
	for _, layout := range inputLayouts {
		if ts, err := time.Parse(layout, trimmed); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %q", raw)
}

// Validate checks that a date string parses and falls within the plausible
// historical window (MinPlausibleYear through next year). Unparseable or
// out-of-range dates are rejected, never silently accepted.
func Validate(raw string) (time.Time, error) {
	ts, err := Parse(raw)
	if err != nil {
		return time.Time{}, err
	}
	year := ts.Year()
	if year < MinPlausibleYear {
		return time.Time{}, fmt.Errorf("implausible year %d in date %q (before %d)", year, raw, MinPlausibleYear)
	}
	if year > time.Now().Year()+1 {
		return time.Time{}, fmt.Errorf("implausible year %d in date %q (in the future)", year, raw)
	}
	return ts, nil
}

// Canonicalize parses and validates a raw date string and returns it in
// DD-Mon-YYYY form.
func Canonicalize(raw string) (string, error) {
	ts, err := Validate(raw)
	if err != nil {
		return "", err
	}
	return ts.Format(CanonicalLayout), nil
}
