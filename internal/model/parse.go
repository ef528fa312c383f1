package model

import (
	"strconv"
	"strings"
	"time"
)

// ParseNumber coerces a raw tabular cell into a float64. Unparseable
// cells become Missing rather than an error so a single bad cell never
// aborts a record or a cycle.
func ParseNumber(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Missing()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Missing()
	}
	return v
}

// dateLayouts covers the formats observed in feed exports.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
}

// ParseDate coerces a raw cell into a date. Unparseable cells return the
// zero time; records without a date are excluded from daily grouping but
// still contribute to the other means.
func ParseDate(raw string) time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
