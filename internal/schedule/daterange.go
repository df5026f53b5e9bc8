package schedule

import (
	"strings"
	"time"
)

// Default wall-clock times substituted when a schedule endpoint
// is missing its time component.
const (
	DefaultStartTime = "09:00"
	DefaultEndTime   = "10:00"
)

const dateOnlyLen = len("2006-01-02")

// IsDateOnly reports whether the value is a bare YYYY-MM-DD date
// with no time component.
func IsDateOnly(value string) bool {
	if len(value) != dateOnlyLen {
		return false
	}
	for i, r := range value {
		if i == 4 || i == 7 {
			if r != '-' {
				return false
			}
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// DatePart truncates a date or date-time value to its YYYY-MM-DD prefix.
// Values shorter than a full date are returned as-is.
func DatePart(value string) string {
	if len(value) > dateOnlyLen {
		return value[:dateOnlyLen]
	}
	return value
}

// TimePart extracts the HH:MM portion of a date-time value,
// or "" when the value carries no time component.
func TimePart(value string) string {
	_, t, found := strings.Cut(value, "T")
	if !found {
		return ""
	}
	if len(t) > len("15:04") {
		t = t[:len("15:04")]
	}
	return t
}

// ComposeDateTime joins a date and an HH:MM time into YYYY-MM-DDTHH:MM,
// substituting fallback when the time is empty.
func ComposeDateTime(date, clock, fallback string) string {
	if clock == "" {
		clock = fallback
	}
	return date + "T" + clock
}

// EnsureDateTime coerces a value into date-time shape. Values that already
// carry a time component pass through unchanged; otherwise the date portion
// of the value (or baseDate when the value is empty) is joined with
// fallbackTime.
func EnsureDateTime(value, baseDate, fallbackTime string) string {
	if strings.Contains(value, "T") {
		return value
	}
	date := DatePart(value)
	if date == "" {
		date = baseDate
	}
	return date + "T" + fallbackTime
}

// EnsureDateOnly coerces a value into date-only shape, falling back to
// baseDate when the value is empty.
func EnsureDateOnly(value, baseDate string) string {
	if date := DatePart(value); date != "" {
		return date
	}
	return baseDate
}

// StartOfDay expands a date to the first second of that day.
func StartOfDay(date string) string {
	return date + "T00:00:00"
}

// EndOfDay expands a date to the last second of that day.
func EndOfDay(date string) string {
	return date + "T23:59:59"
}

// NormalizeRange converts an activeFrom/activeUntil pair into the canonical
// storage shape: date-only endpoints expand to start-of-day and end-of-day
// respectively, values already carrying a time component pass through
// unchanged, and empty values stay empty. Applied only at the storage
// boundary; in-flight editing keeps the user's shape.
func NormalizeRange(from, until string) (string, string) {
	if IsDateOnly(from) {
		from = StartOfDay(from)
	}
	if IsDateOnly(until) {
		until = EndOfDay(until)
	}
	return from, until
}

// MoveStart applies an edit to the start of a range, pulling the end forward
// whenever the new start overtakes it. Lexicographic comparison is
// ordering-correct for both ISO shapes.
func MoveStart(next, until string) (string, string) {
	if until == "" || next > until {
		until = next
	}
	return next, until
}

// MoveEnd applies an edit to the end of a range, pushing the start back
// whenever the new end precedes it.
func MoveEnd(from, next string) (string, string) {
	if from == "" || next < from {
		from = next
	}
	return from, next
}

// ClampRange enforces from <= until on a submitted range by pulling the end
// forward, the same rule a start edit applies. Empty endpoints pass through.
func ClampRange(from, until string) (string, string) {
	if from != "" && until != "" && from > until {
		until = from
	}
	return from, until
}

// ParseStamp reads a date-only or date-time value as a local timestamp.
// The second return is false for anything that fits neither shape; callers
// treat that as "date not set" rather than an error.
func ParseStamp(value string) (time.Time, bool) {
	for _, layout := range []string{
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		DateOnlyFormat,
	} {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
