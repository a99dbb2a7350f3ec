// Package timeutil parses and normalizes the batch's wire timestamp format.
package timeutil

import (
	"fmt"
	"time"
)

// Layouts accepted on the wire. The short form lacks seconds and is
// normalized by appending ":00" before epoch conversion.
const (
	layoutLong  = "2006-01-02 15:04:05"
	layoutShort = "2006-01-02 15:04"
)

// ParseResult is the normalized form of a wire timestamp: a canonical
// second-precision string plus its UTC epoch.
type ParseResult struct {
	Date  string
	Epoch int64
}

// Parse accepts "YYYY-MM-DD HH:MM" (16 chars) or "YYYY-MM-DD HH:MM:SS"
// (19 chars), rejects any other length or malformed separator, requires
// the components to form a real calendar instant, and interprets the
// result as UTC.
func Parse(raw string) (ParseResult, error) {
	var layout string
	switch len(raw) {
	case len(layoutShort):
		layout = layoutShort
	case len(layoutLong):
		layout = layoutLong
	default:
		return ParseResult{}, fmt.Errorf("invalid timestamp %q: expected length 16 or 19", raw)
	}

	if err := checkSeparators(raw); err != nil {
		return ParseResult{}, err
	}

	t, err := time.Parse(layout, raw)
	if err != nil {
		return ParseResult{}, fmt.Errorf("invalid timestamp %q: %w", raw, err)
	}
	t = t.UTC()

	return ParseResult{
		Date:  t.Format(layoutLong),
		Epoch: t.Unix(),
	}, nil
}

// checkSeparators validates the fixed separator positions before handing
// off to time.Parse, so a string like "2023-10-12T20:15:00" (wrong separator
// but right length) fails with our error rather than a cryptic stdlib one.
func checkSeparators(raw string) error {
	positions := []struct {
		idx  int
		want byte
	}{
		{4, '-'}, {7, '-'}, {10, ' '}, {13, ':'},
	}
	for _, p := range positions {
		if raw[p.idx] != p.want {
			return fmt.Errorf("invalid timestamp %q: expected %q at position %d", raw, p.want, p.idx)
		}
	}
	if len(raw) == len(layoutLong) && raw[16] != ':' {
		return fmt.Errorf("invalid timestamp %q: expected ':' at position 16", raw)
	}
	return nil
}

// SameCalendarYear reports whether two epoch seconds fall in the same UTC
// calendar year, required by the K-interval invariant (spec §3).
func SameCalendarYear(aEpoch, bEpoch int64) bool {
	return time.Unix(aEpoch, 0).UTC().Year() == time.Unix(bEpoch, 0).UTC().Year()
}
