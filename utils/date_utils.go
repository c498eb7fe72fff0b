package utils

import (
	"strings"
	"time"
)

// strictDateLayouts are tried, in order, to infer one layout for a whole column.
var strictDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04",
	"2006/01/02",
	"01/02/2006",
}

// lenientDateLayouts extend the strict set for mixed-format columns.
var lenientDateLayouts = append(append([]string{}, strictDateLayouts...),
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05-07:00",
	"2006-1-2",
	"2006/1/2",
	"1/2/2006",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"1/2/06",
	"2.1.2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	"02-Jan-2006",
	"02-Jan-06",
	"Mon, 02 Jan 2006",
	time.RFC1123,
	time.RFC1123Z,
	time.ANSIC,
	"20060102",
)

// TruncateDay drops the clock and zone, keeping the calendar date at UTC midnight.
func TruncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// InferDateLayout returns the first strict layout that parses value.
func InferDateLayout(value string) (string, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range strictDateLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			return layout, true
		}
	}
	return "", false
}

// ParseDateWithLayout parses value with a single layout and truncates it to a calendar date.
func ParseDateWithLayout(layout, value string) (time.Time, bool) {
	t, err := time.Parse(layout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, false
	}
	return TruncateDay(t), true
}

// ParseDateLenient tries every known layout against value.
func ParseDateLenient(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range lenientDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return TruncateDay(t), true
		}
	}
	return time.Time{}, false
}
