package schedule

import (
	"testing"
	"time"
)

func TestToggleWeekday(t *testing.T) {
	t.Run("sets an unset bit", func(t *testing.T) {
		if got := ToggleWeekday(0, Wednesday); got != Wednesday {
			t.Errorf("ToggleWeekday(0, Wednesday) = %d, want %d", got, Wednesday)
		}
	})

	t.Run("clears a set bit", func(t *testing.T) {
		mask := Monday | Friday
		if got := ToggleWeekday(mask, Friday); got != Monday {
			t.Errorf("ToggleWeekday = %d, want %d", got, Monday)
		}
	})

	t.Run("is an involution for every mask and bit", func(t *testing.T) {
		bits := []int{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
		for mask := 0; mask <= AllWeekdays; mask++ {
			for _, bit := range bits {
				if got := ToggleWeekday(ToggleWeekday(mask, bit), bit); got != mask {
					t.Fatalf("double toggle of bit %d changed mask %d to %d", bit, mask, got)
				}
			}
		}
	})

	t.Run("never touches other bits", func(t *testing.T) {
		mask := Monday | Wednesday | Sunday
		got := ToggleWeekday(mask, Tuesday)
		for _, bit := range []int{Monday, Wednesday, Sunday} {
			if !IsWeekdaySelected(got, bit) {
				t.Errorf("bit %d lost after toggling Tuesday", bit)
			}
		}
	})
}

func TestIsWeekdaySelected(t *testing.T) {
	mask := Tuesday | Saturday
	if !IsWeekdaySelected(mask, Tuesday) {
		t.Error("Tuesday should be selected")
	}
	if IsWeekdaySelected(mask, Monday) {
		t.Error("Monday should not be selected")
	}
}

func TestFormatRepeatDays(t *testing.T) {
	tests := []struct {
		name string
		mask int
		want string
	}{
		{"zero mask", 0, ""},
		{"single day", Monday, "Mon"},
		{"weekend", Saturday | Sunday, "Sat, Sun"},
		{"fixed order regardless of bit value", Sunday | Monday, "Mon, Sun"},
		{"all days", AllWeekdays, "Mon, Tue, Wed, Thu, Fri, Sat, Sun"},
		{"unrecognized high bits ignored", 128 | 256, ""},
		{"high bits with real days", 128 | Wednesday, "Wed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatRepeatDays(tt.mask); got != tt.want {
				t.Errorf("FormatRepeatDays(%d) = %q, want %q", tt.mask, got, tt.want)
			}
		})
	}
}

func TestFormatRepeatDaysIsTotal(t *testing.T) {
	// Every mask in [0,127] must produce a label per set bit, in order.
	for mask := 0; mask <= AllWeekdays; mask++ {
		got := FormatRepeatDays(mask)
		count := 0
		for _, day := range weekdayLabels {
			if IsWeekdaySelected(mask, day.Bit) {
				count++
			}
		}
		if mask == 0 {
			if got != "" {
				t.Fatalf("FormatRepeatDays(0) = %q, want empty", got)
			}
			continue
		}
		labels := 1
		for _, r := range got {
			if r == ',' {
				labels++
			}
		}
		if labels != count {
			t.Fatalf("FormatRepeatDays(%d) = %q, want %d labels", mask, got, count)
		}
	}
}

func TestWeekdayBitFor(t *testing.T) {
	// 2025-03-03 is a Monday.
	day := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	for i, want := range []int{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday} {
		got := WeekdayBitFor(day.AddDate(0, 0, i))
		if got != want {
			t.Errorf("WeekdayBitFor(+%d days) = %d, want %d", i, got, want)
		}
	}
}
