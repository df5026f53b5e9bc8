package schedule

import "testing"

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input string
		want  int64
		ok    bool
	}{
		// alias table
		{"1h", 3600, true},
		{"1hour", 3600, true},
		{"1hr", 3600, true},
		{"60m", 3600, true},
		{"3600s", 3600, true},
		{"3600000", 3600, true},
		{"1d", 86400, true},
		{"24h", 86400, true},
		{"86400000", 86400, true},
		{"3d", 259200, true},
		{"72h", 259200, true},
		{"1w", 604800, true},
		{"7d", 604800, true},
		{"168h", 604800, true},
		{"604800000", 604800, true},
		// case and whitespace insensitivity
		{"  1H  ", 3600, true},
		{"24H", 86400, true},
		// restricted ISO shape
		{"P3DT0H", 259200, true},
		{"P1D", 86400, true},
		{"PT1H", 3600, true},
		{"p7d", 604800, true},
		// integer-with-unit
		{"90m", 5400, true},
		{"2w", 1209600, true},
		{"45s", 45, true},
		// bare numbers: ms above 100000, seconds below
		{"5000", 5000, true},
		{"100000", 100000, true},
		{"100001", 100, true},
		{"7200000", 7200, true},
		// garbage
		{"bogus", 0, false},
		{"", 0, false},
		{"P", 0, false},
		{"PXD", 0, false},
		{"12x", 0, false},
		// signs are rejected in the unit and ISO shapes but a bare
		// number still reads like a float
		{"+3600s", 0, false},
		{"-1d", 0, false},
		{"P+3D", 0, false},
		{"PT-1H", 0, false},
		{"+100", 100, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseDuration(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseDuration(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("ParseDuration(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDurationZeroISO(t *testing.T) {
	// A zero ISO duration counts as no match; the value then falls
	// through and fails the numeric branches too.
	if _, ok := ParseDuration("P0DT0H"); ok {
		t.Error("zero ISO duration should not match")
	}
}

func TestOffsetLabelFor(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
		ok      bool
	}{
		{3600, "1h", true},
		{3605, "1h", true},
		{3540, "1h", true},
		{86400, "1d", true},
		{86460, "1d", true},
		{259200, "3d", true},
		{604800, "1w", true},
		{5000, "", false},
		{3700, "", false},
		{0, "", false},
	}

	for _, tt := range tests {
		got, ok := OffsetLabelFor(tt.seconds)
		if ok != tt.ok || got != tt.want {
			t.Errorf("OffsetLabelFor(%d) = (%q, %v), want (%q, %v)",
				tt.seconds, got, ok, tt.want, tt.ok)
		}
	}
}

func TestOffsetSeconds(t *testing.T) {
	for _, label := range OffsetLabels {
		seconds, ok := OffsetSeconds(label)
		if !ok || seconds == 0 {
			t.Errorf("OffsetSeconds(%q) = (%d, %v)", label, seconds, ok)
		}
	}
	if _, ok := OffsetSeconds("2h"); ok {
		t.Error("2h is not a canonical offset")
	}
}
