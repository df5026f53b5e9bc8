package schedule

import (
	"strings"
	"time"
)

// Weekday flags for the repeat-days mask. A zero mask means
// the todo does not recur.
const (
	Monday    = 1 << iota // 1
	Tuesday               // 2
	Wednesday             // 4
	Thursday              // 8
	Friday                // 16
	Saturday              // 32
	Sunday                // 64
)

// AllWeekdays is the union of every weekday flag.
const AllWeekdays = Monday | Tuesday | Wednesday | Thursday | Friday | Saturday | Sunday

var weekdayLabels = []struct {
	Bit   int
	Label string
}{
	{Monday, "Mon"},
	{Tuesday, "Tue"},
	{Wednesday, "Wed"},
	{Thursday, "Thu"},
	{Friday, "Fri"},
	{Saturday, "Sat"},
	{Sunday, "Sun"},
}

// ToggleWeekday flips a single weekday bit in the mask,
// leaving every other bit untouched.
func ToggleWeekday(mask, bit int) int {
	return mask ^ bit
}

// IsWeekdaySelected reports whether the weekday bit is set in the mask.
func IsWeekdaySelected(mask, bit int) bool {
	return mask&bit == bit
}

// FormatRepeatDays renders the selected weekdays as a comma-joined
// list in Mon..Sun order. It returns "" for a zero mask or a mask
// with no recognized weekday bits; bits above Sunday are ignored.
func FormatRepeatDays(mask int) string {
	if mask == 0 {
		return ""
	}

	labels := make([]string, 0, len(weekdayLabels))
	for _, day := range weekdayLabels {
		if IsWeekdaySelected(mask, day.Bit) {
			labels = append(labels, day.Label)
		}
	}
	if len(labels) == 0 {
		return ""
	}
	return strings.Join(labels, ", ")
}

// WeekdayBitFor maps a calendar date to its repeat-mask flag.
func WeekdayBitFor(t time.Time) int {
	switch t.Weekday() {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}
