package schedule

import "testing"

func TestComposeDateTime(t *testing.T) {
	t.Run("joins date and time", func(t *testing.T) {
		got := ComposeDateTime("2025-03-03", "14:30", DefaultStartTime)
		if got != "2025-03-03T14:30" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("empty time falls back to start default", func(t *testing.T) {
		got := ComposeDateTime("2025-03-03", "", DefaultStartTime)
		if got != "2025-03-03T09:00" {
			t.Errorf("got %q, want 2025-03-03T09:00", got)
		}
	})

	t.Run("empty time falls back to end default", func(t *testing.T) {
		got := ComposeDateTime("2025-03-03", "", DefaultEndTime)
		if got != "2025-03-03T10:00" {
			t.Errorf("got %q, want 2025-03-03T10:00", got)
		}
	})
}

func TestEnsureDateTime(t *testing.T) {
	tests := []struct {
		name         string
		value        string
		baseDate     string
		fallbackTime string
		want         string
	}{
		{"date-only gains fallback time", "2025-03-03", "2025-01-01", "09:00", "2025-03-03T09:00"},
		{"existing time unchanged", "2025-03-03T14:00", "2025-01-01", "09:00", "2025-03-03T14:00"},
		{"empty value uses base date", "", "2025-01-01", "10:00", "2025-01-01T10:00"},
		{"seconds precision unchanged", "2025-03-03T14:00:30", "2025-01-01", "09:00", "2025-03-03T14:00:30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EnsureDateTime(tt.value, tt.baseDate, tt.fallbackTime)
			if got != tt.want {
				t.Errorf("EnsureDateTime(%q, %q, %q) = %q, want %q",
					tt.value, tt.baseDate, tt.fallbackTime, got, tt.want)
			}
		})
	}
}

func TestEnsureDateOnly(t *testing.T) {
	t.Run("truncates date-time", func(t *testing.T) {
		if got := EnsureDateOnly("2025-03-03T14:00", "2025-01-01"); got != "2025-03-03" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("empty value falls back", func(t *testing.T) {
		if got := EnsureDateOnly("", "2025-01-01"); got != "2025-01-01" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("bare date passes through", func(t *testing.T) {
		if got := EnsureDateOnly("2025-03-03", "2025-01-01"); got != "2025-03-03" {
			t.Errorf("got %q", got)
		}
	})
}

func TestNormalizeRange(t *testing.T) {
	t.Run("date-only expands to day bounds", func(t *testing.T) {
		from, until := NormalizeRange("2025-03-03", "2025-03-03")
		if from != "2025-03-03T00:00:00" || until != "2025-03-03T23:59:59" {
			t.Errorf("got (%q, %q)", from, until)
		}
	})

	t.Run("date-times pass through", func(t *testing.T) {
		from, until := NormalizeRange("2025-03-03T14:00", "2025-03-03T15:00")
		if from != "2025-03-03T14:00" || until != "2025-03-03T15:00" {
			t.Errorf("got (%q, %q)", from, until)
		}
	})

	t.Run("empty values stay empty", func(t *testing.T) {
		from, until := NormalizeRange("", "")
		if from != "" || until != "" {
			t.Errorf("got (%q, %q)", from, until)
		}
	})

	t.Run("mixed shapes expand independently", func(t *testing.T) {
		from, until := NormalizeRange("2025-03-03", "2025-03-05T18:00")
		if from != "2025-03-03T00:00:00" || until != "2025-03-05T18:00" {
			t.Errorf("got (%q, %q)", from, until)
		}
	})

	t.Run("malformed values pass through untouched", func(t *testing.T) {
		from, until := NormalizeRange("not-a-date", "2025-03-03")
		if from != "not-a-date" || until != "2025-03-03T23:59:59" {
			t.Errorf("got (%q, %q)", from, until)
		}
	})
}

func TestMoveStart(t *testing.T) {
	t.Run("pulls end forward when start overtakes it", func(t *testing.T) {
		from, until := MoveStart("2025-03-10", "2025-03-05")
		if from != "2025-03-10" || until != "2025-03-10" {
			t.Errorf("got (%q, %q)", from, until)
		}
	})

	t.Run("keeps end when still ordered", func(t *testing.T) {
		from, until := MoveStart("2025-03-01", "2025-03-05")
		if from != "2025-03-01" || until != "2025-03-05" {
			t.Errorf("got (%q, %q)", from, until)
		}
	})

	t.Run("fills empty end", func(t *testing.T) {
		_, until := MoveStart("2025-03-01", "")
		if until != "2025-03-01" {
			t.Errorf("until = %q", until)
		}
	})
}

func TestMoveEnd(t *testing.T) {
	t.Run("pushes start back when end precedes it", func(t *testing.T) {
		from, until := MoveEnd("2025-03-10", "2025-03-05")
		if from != "2025-03-05" || until != "2025-03-05" {
			t.Errorf("got (%q, %q)", from, until)
		}
	})

	t.Run("keeps start when still ordered", func(t *testing.T) {
		from, until := MoveEnd("2025-03-01", "2025-03-05")
		if from != "2025-03-01" || until != "2025-03-05" {
			t.Errorf("got (%q, %q)", from, until)
		}
	})
}

func TestClampRange(t *testing.T) {
	from, until := ClampRange("2025-03-10T09:00", "2025-03-05T10:00")
	if until != "2025-03-10T09:00" {
		t.Errorf("until = %q, want clamped to from", until)
	}
	if from != "2025-03-10T09:00" {
		t.Errorf("from = %q, should be unchanged", from)
	}
}

func TestIsDateOnly(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"2025-03-03", true},
		{"2025-03-03T14:00", false},
		{"", false},
		{"2025-3-3", false},
		{"20250303xx", false},
	}
	for _, tt := range tests {
		if got := IsDateOnly(tt.value); got != tt.want {
			t.Errorf("IsDateOnly(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestParseStamp(t *testing.T) {
	t.Run("accepts all three shapes", func(t *testing.T) {
		for _, value := range []string{"2025-03-03", "2025-03-03T14:00", "2025-03-03T14:00:30"} {
			if _, ok := ParseStamp(value); !ok {
				t.Errorf("ParseStamp(%q) not ok", value)
			}
		}
	})

	t.Run("rejects garbage", func(t *testing.T) {
		if _, ok := ParseStamp("bogus"); ok {
			t.Error("ParseStamp(bogus) should not parse")
		}
	})
}
