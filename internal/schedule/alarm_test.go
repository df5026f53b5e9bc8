package schedule

import (
	"reflect"
	"testing"
)

func TestClassifyNotifies(t *testing.T) {
	t.Run("buckets by event type and drops garbage", func(t *testing.T) {
		entries := []NotifyEntry{
			{EventType: "REMINDER", RemainTime: "3600s"},
			{EventType: "DEADLINE", RemainTime: "P1D"},
			{EventType: "REMINDER", RemainTime: "garbage"},
		}

		set := ClassifyNotifies(entries)
		if !reflect.DeepEqual(set.Start, []string{"1h"}) {
			t.Errorf("Start = %v, want [1h]", set.Start)
		}
		if !reflect.DeepEqual(set.End, []string{"1d"}) {
			t.Errorf("End = %v, want [1d]", set.End)
		}
	})

	t.Run("collapses duplicates", func(t *testing.T) {
		entries := []NotifyEntry{
			{EventType: "REMINDER", RemainTime: "1h"},
			{EventType: "REMINDER", RemainTime: "3600000"},
			{EventType: "REMINDER", RemainTime: "60m"},
		}

		set := ClassifyNotifies(entries)
		if !reflect.DeepEqual(set.Start, []string{"1h"}) {
			t.Errorf("Start = %v, want [1h]", set.Start)
		}
	})

	t.Run("unknown event types dropped", func(t *testing.T) {
		entries := []NotifyEntry{
			{EventType: "SUMMARY", RemainTime: "1h"},
			{EventType: "TIMER", RemainTime: "1d"},
			{RemainTime: "1w"},
		}

		set := ClassifyNotifies(entries)
		if len(set.Start) != 0 || len(set.End) != 0 {
			t.Errorf("got %+v, want empty set", set)
		}
	})

	t.Run("notify type fallback when event type empty", func(t *testing.T) {
		entries := []NotifyEntry{
			{NotifyType: "DEADLINE", RemainTime: "72h"},
		}

		set := ClassifyNotifies(entries)
		if !reflect.DeepEqual(set.End, []string{"3d"}) {
			t.Errorf("End = %v, want [3d]", set.End)
		}
	})

	t.Run("out of tolerance durations dropped", func(t *testing.T) {
		entries := []NotifyEntry{
			{EventType: "REMINDER", RemainTime: "5000"},
		}

		set := ClassifyNotifies(entries)
		if len(set.Start) != 0 {
			t.Errorf("Start = %v, want empty", set.Start)
		}
	})
}

func TestAlarmSetTokens(t *testing.T) {
	t.Run("start tokens before end tokens", func(t *testing.T) {
		set := AlarmSet{Start: []string{"1h"}, End: []string{"1d"}}
		want := []string{"reminder-1h", "deadline-1d"}
		if got := set.Tokens(); !reflect.DeepEqual(got, want) {
			t.Errorf("Tokens() = %v, want %v", got, want)
		}
	})

	t.Run("canonical label order within a bucket", func(t *testing.T) {
		set := AlarmSet{Start: []string{"1w", "1h", "3d"}}
		want := []string{"reminder-1h", "reminder-3d", "reminder-1w"}
		if got := set.Tokens(); !reflect.DeepEqual(got, want) {
			t.Errorf("Tokens() = %v, want %v", got, want)
		}
	})

	t.Run("empty set yields no tokens", func(t *testing.T) {
		if got := (AlarmSet{}).Tokens(); len(got) != 0 {
			t.Errorf("Tokens() = %v, want none", got)
		}
	})
}

func TestParseTokens(t *testing.T) {
	t.Run("strips both separators case-insensitively", func(t *testing.T) {
		set := ParseTokens([]string{"Reminder-1h", "DEADLINE_1d", "reminder_1w"})
		if !reflect.DeepEqual(set.Start, []string{"1h", "1w"}) {
			t.Errorf("Start = %v", set.Start)
		}
		if !reflect.DeepEqual(set.End, []string{"1d"}) {
			t.Errorf("End = %v", set.End)
		}
	})

	t.Run("drops unknown prefixes and offsets", func(t *testing.T) {
		set := ParseTokens([]string{"alarm-1h", "reminder-2h", "deadline-", "junk"})
		if len(set.Start) != 0 || len(set.End) != 0 {
			t.Errorf("got %+v, want empty set", set)
		}
	})
}

func TestTokenRoundTrip(t *testing.T) {
	// Every subset of {start,end} x {1h,1d,3d,1w} survives a
	// Tokens/ParseTokens round trip with set equality per bucket.
	subsets := func(bits int) []string {
		var labels []string
		for i, label := range OffsetLabels {
			if bits&(1<<i) != 0 {
				labels = append(labels, label)
			}
		}
		return labels
	}

	for startBits := 0; startBits < 16; startBits++ {
		for endBits := 0; endBits < 16; endBits++ {
			set := AlarmSet{Start: subsets(startBits), End: subsets(endBits)}
			got := ParseTokens(set.Tokens())
			if !reflect.DeepEqual(got.Start, set.Start) || !reflect.DeepEqual(got.End, set.End) {
				t.Fatalf("round trip of %+v produced %+v", set, got)
			}
		}
	}
}

func TestFeedReconciliationEndToEnd(t *testing.T) {
	entries := []NotifyEntry{
		{EventType: "REMINDER", RemainTime: "3600s"},
		{EventType: "DEADLINE", RemainTime: "P1D"},
		{EventType: "REMINDER", RemainTime: "garbage"},
	}

	tokens := ClassifyNotifies(entries).Tokens()
	want := []string{"reminder-1h", "deadline-1d"}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("tokens = %v, want %v", tokens, want)
	}
}
