package schedule

import (
	"testing"
	"time"
)

func TestActiveOn(t *testing.T) {
	// 2025-03-03 is a Monday.
	monday := time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)

	t.Run("repeat mask wins over range", func(t *testing.T) {
		if !ActiveOn("2030-01-01", "2030-12-31", Monday, monday) {
			t.Error("masked todo should recur regardless of range")
		}
		if ActiveOn("", "", Monday, tuesday) {
			t.Error("mask without the weekday bit should not match")
		}
	})

	t.Run("range comparison uses date portions", func(t *testing.T) {
		tests := []struct {
			name        string
			from, until string
			day         time.Time
			want        bool
		}{
			{"inside range", "2025-03-01T09:00:00", "2025-03-05T10:00:00", monday, true},
			{"on start boundary", "2025-03-03T23:59:59", "", monday, true},
			{"on end boundary", "", "2025-03-03T00:00:00", monday, true},
			{"before range", "2025-03-04", "", monday, false},
			{"after range", "", "2025-03-02", monday, false},
			{"open both sides", "", "", monday, true},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if got := ActiveOn(tt.from, tt.until, 0, tt.day); got != tt.want {
					t.Errorf("ActiveOn(%q, %q) = %v, want %v", tt.from, tt.until, got, tt.want)
				}
			})
		}
	})
}

func TestOverlapsDates(t *testing.T) {
	const start, end = "2025-03-01", "2025-03-31"

	tests := []struct {
		name        string
		from, until string
		want        bool
	}{
		{"inside window", "2025-03-10T09:00:00", "2025-03-12T10:00:00", true},
		{"spans the whole window", "2025-02-01", "2025-04-15", true},
		{"ends on first day", "2025-02-20", "2025-03-01T00:00:00", true},
		{"starts on last day", "2025-03-31T23:00:00", "2025-04-02", true},
		{"entirely before", "2025-02-01", "2025-02-28", false},
		{"entirely after", "2025-04-01", "2025-04-05", false},
		{"open start", "", "2025-03-05", true},
		{"open end", "2025-03-20", "", true},
		{"fully open", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OverlapsDates(tt.from, tt.until, start, end); got != tt.want {
				t.Errorf("OverlapsDates(%q, %q) = %v, want %v", tt.from, tt.until, got, tt.want)
			}
		})
	}
}
