package schedule

import "strings"

// Alarm event types delivered by the notification feed.
const (
	EventReminder = "REMINDER"
	EventDeadline = "DEADLINE"
)

// Alarm token prefixes exchanged with clients. Reminder tokens anchor on a
// todo's start, deadline tokens on its end.
const (
	tokenPrefixReminder = "reminder-"
	tokenPrefixDeadline = "deadline-"
)

// AlarmSet holds the canonical offset labels selected for each anchor of a
// schedule todo. Buckets behave as sets: duplicates collapse and order is
// the canonical 1h, 1d, 3d, 1w.
type AlarmSet struct {
	Start []string
	End   []string
}

// NotifyEntry is the slice of a feed record the reconciler needs.
type NotifyEntry struct {
	EventType  string
	NotifyType string
	RemainTime string
}

// ClassifyNotifies reconciles raw feed entries into an AlarmSet. Entries
// whose duration parses to a canonical offset land in the bucket named by
// their event type (REMINDER to start, DEADLINE to end, with NotifyType as
// a fallback when EventType is empty); everything else is dropped.
func ClassifyNotifies(entries []NotifyEntry) AlarmSet {
	start := map[string]bool{}
	end := map[string]bool{}

	for _, entry := range entries {
		seconds, ok := ParseDuration(entry.RemainTime)
		if !ok {
			continue
		}
		label, ok := OffsetLabelFor(seconds)
		if !ok {
			continue
		}

		eventType := entry.EventType
		if eventType == "" {
			eventType = entry.NotifyType
		}
		switch eventType {
		case EventDeadline:
			end[label] = true
		case EventReminder:
			start[label] = true
		}
	}

	return AlarmSet{
		Start: orderedLabels(start),
		End:   orderedLabels(end),
	}
}

// Tokens serializes the set as reminder-<offset> tokens followed by
// deadline-<offset> tokens.
func (s AlarmSet) Tokens() []string {
	tokens := make([]string, 0, len(s.Start)+len(s.End))
	for _, label := range orderedLabels(labelSet(s.Start)) {
		tokens = append(tokens, tokenPrefixReminder+label)
	}
	for _, label := range orderedLabels(labelSet(s.End)) {
		tokens = append(tokens, tokenPrefixDeadline+label)
	}
	return tokens
}

// ParseTokens rebuilds an AlarmSet from stored tokens. Prefixes match
// case-insensitively with either - or _ separators; tokens carrying an
// unknown prefix or a non-canonical offset are dropped.
func ParseTokens(tokens []string) AlarmSet {
	start := map[string]bool{}
	end := map[string]bool{}

	for _, token := range tokens {
		normalized := strings.ToLower(strings.TrimSpace(token))

		var offset string
		var bucket map[string]bool
		switch {
		case strings.HasPrefix(normalized, "reminder-"), strings.HasPrefix(normalized, "reminder_"):
			offset = normalized[len("reminder-"):]
			bucket = start
		case strings.HasPrefix(normalized, "deadline-"), strings.HasPrefix(normalized, "deadline_"):
			offset = normalized[len("deadline-"):]
			bucket = end
		default:
			continue
		}

		if _, ok := offsetSeconds[offset]; !ok {
			continue
		}
		bucket[offset] = true
	}

	return AlarmSet{
		Start: orderedLabels(start),
		End:   orderedLabels(end),
	}
}

func labelSet(labels []string) map[string]bool {
	set := make(map[string]bool, len(labels))
	for _, label := range labels {
		if _, ok := offsetSeconds[label]; ok {
			set[label] = true
		}
	}
	return set
}

func orderedLabels(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	ordered := make([]string, 0, len(set))
	for _, label := range OffsetLabels {
		if set[label] {
			ordered = append(ordered, label)
		}
	}
	return ordered
}
