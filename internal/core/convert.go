package core

// convert.go turns raw export cells into typed values.
//
// The daily export is produced by hand-edited spreadsheets as often as by the
// source system, so the converters tolerate the usual artifacts: Excel formula
// prefixes (="value"), stray quotes, thousands separators and unit suffixes.
// None of them return errors; a value that cannot be read is reported as
// missing and the caller decides whether that drops the row.

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// numericRegex validates that a string is a plain decimal after cleanup.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

// distanceUnits are stripped from the end of a Distance cell, longest first.
var distanceUnits = []string{"miles", "mile", "mi"}

// DefaultDateLayouts is the fixed set of Created Date formats, tried in order.
// The export writes M/D/YYYY with an optional time of day; ISO forms cover
// re-saved files.
var DefaultDateLayouts = []string{
	"1/2/2006 15:04",
	"1/2/2006 3:04 PM",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 15:04:05",
	"1/2/2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDate parses s with the first matching layout and truncates it to a
// calendar date at midnight UTC. The calendar day is taken in the value's own
// offset, so "2025-11-12T23:30:00-05:00" stays on the 12th.
func ParseDate(s string, layouts []string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if len(layouts) == 0 {
		layouts = DefaultDateLayouts
	}

	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return DateOf(t), true
		}
	}
	return time.Time{}, false
}

// DateOf strips the time of day from t.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDistance converts a Distance cell to miles. Blank or non-numeric input
// yields nil, never an error.
func ParseDistance(s string) *float64 {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return nil
	}

	for _, unit := range distanceUnits {
		if strings.HasSuffix(s, unit) {
			s = strings.TrimSpace(strings.TrimSuffix(s, unit))
			break
		}
	}
	s = strings.ReplaceAll(s, ",", "")

	if !numericRegex.MatchString(s) {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// SplitTags splits a Tags cell into its trimmed, non-empty parts.
func SplitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

// MakeHeaderIndex creates a HeaderIndex from a CSV header row.
// Keys are lowercased for case-insensitive matching. When a header repeats,
// the first occurrence wins.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		key := strings.ToLower(CleanCell(h))
		if _, dup := idx[key]; dup {
			continue
		}
		idx[key] = i
	}
	return idx
}

// CleanCell removes common CSV artifacts from a cell value:
//   - Replaces invalid UTF-8 with U+FFFD
//   - Trims whitespace
//   - Removes Excel formula prefix (="...")
//   - Removes surrounding quotes
func CleanCell(s string) string {
	s = strings.ToValidUTF8(s, "�")
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") && len(s) >= 3 {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}
