package schedule

import "time"

// DateOnlyFormat is the wire shape of date-only values.
const DateOnlyFormat = "2006-01-02"

// ActiveOn reports whether a todo with the given active range and repeat
// mask belongs on the given calendar day. A non-zero mask wins: the todo
// recurs on every day whose weekday bit is set. Otherwise the day must fall
// inside the range, comparing date portions only; an empty endpoint leaves
// that side open.
func ActiveOn(from, until string, repeatMask int, day time.Time) bool {
	if repeatMask != 0 {
		return IsWeekdaySelected(repeatMask, WeekdayBitFor(day))
	}

	date := day.Format(DateOnlyFormat)
	if from != "" && DatePart(from) > date {
		return false
	}
	if until != "" && DatePart(until) < date {
		return false
	}
	return true
}

// OverlapsDates reports whether a todo's active range touches any day of the
// inclusive [start, end] window, comparing date portions only. An empty
// endpoint leaves that side open, so a fully open range overlaps everything.
func OverlapsDates(from, until, start, end string) bool {
	if from != "" && DatePart(from) > end {
		return false
	}
	if until != "" && DatePart(until) < start {
		return false
	}
	return true
}
