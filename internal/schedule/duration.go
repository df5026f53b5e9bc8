package schedule

import (
	"math"
	"strconv"
	"strings"
)

// Canonical alarm offsets, in seconds.
const (
	OffsetHour  = 60 * 60
	OffsetDay   = 24 * 60 * 60
	OffsetThree = 3 * 24 * 60 * 60
	OffsetWeek  = 7 * 24 * 60 * 60
)

// offsetTolerance absorbs rounding from millisecond-to-second conversion
// when matching a parsed duration against the canonical offsets. A real but
// non-canonical duration within a minute of an offset (a true 59-minute
// reminder, say) is read as that offset.
const offsetTolerance = 60

// OffsetLabels lists the canonical offsets in display order.
var OffsetLabels = []string{"1h", "1d", "3d", "1w"}

var offsetSeconds = map[string]int64{
	"1h": OffsetHour,
	"1d": OffsetDay,
	"3d": OffsetThree,
	"1w": OffsetWeek,
}

// durationAliases maps known feed spellings straight to seconds, so new
// spellings are table rows rather than parser changes.
var durationAliases = map[string]int64{
	"1h":        OffsetHour,
	"1hour":     OffsetHour,
	"1hr":       OffsetHour,
	"60m":       OffsetHour,
	"3600s":     OffsetHour,
	"3600000":   OffsetHour, // milliseconds
	"1d":        OffsetDay,
	"24h":       OffsetDay,
	"86400s":    OffsetDay,
	"86400000":  OffsetDay, // milliseconds
	"3d":        OffsetThree,
	"72h":       OffsetThree,
	"259200s":   OffsetThree,
	"259200000": OffsetThree, // milliseconds
	"1w":        OffsetWeek,
	"7d":        OffsetWeek,
	"168h":      OffsetWeek,
	"604800s":   OffsetWeek,
	"604800000": OffsetWeek, // milliseconds
}

var unitSeconds = map[byte]int64{
	's': 1,
	'm': 60,
	'h': 60 * 60,
	'd': 24 * 60 * 60,
	'w': 7 * 24 * 60 * 60,
}

// ParseDuration turns a free-form feed duration into seconds. It tries, in
// order: the alias table, a restricted ISO-8601 shape P[<days>D][T[<hours>H]],
// an <integer><unit> shape with unit s/m/h/d/w, and finally a bare number,
// read as milliseconds when it exceeds 100000 and as seconds otherwise.
// The second return is false when nothing matches.
func ParseDuration(text string) (int64, bool) {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return 0, false
	}

	if seconds, ok := durationAliases[normalized]; ok {
		return seconds, true
	}

	if seconds, ok := parseISODuration(normalized); ok && seconds != 0 {
		return seconds, true
	}

	if len(normalized) >= 2 {
		if mult, ok := unitSeconds[normalized[len(normalized)-1]]; ok {
			if value, ok := parseDigits(normalized[:len(normalized)-1]); ok {
				return value * mult, true
			}
		}
	}

	if value, err := strconv.ParseFloat(normalized, 64); err == nil {
		if value > 100000 {
			return int64(math.Round(value / 1000)), true
		}
		return int64(math.Round(value)), true
	}

	return 0, false
}

// parseISODuration handles the restricted P[<days>D][T[<hours>H]] shape the
// notification feed emits. Input must already be lowercased.
func parseISODuration(value string) (int64, bool) {
	rest, found := strings.CutPrefix(value, "p")
	if !found {
		return 0, false
	}

	var days, hours int64
	if i := strings.IndexByte(rest, 'd'); i >= 0 {
		n, ok := parseDigits(rest[:i])
		if !ok {
			return 0, false
		}
		days = n
		rest = rest[i+1:]
	}
	if timePart, found := strings.CutPrefix(rest, "t"); found {
		rest = timePart
		if i := strings.IndexByte(rest, 'h'); i >= 0 {
			n, ok := parseDigits(rest[:i])
			if !ok {
				return 0, false
			}
			hours = n
			rest = rest[i+1:]
		}
	}
	if rest != "" {
		return 0, false
	}
	return days*24*60*60 + hours*60*60, true
}

// parseDigits reads an unsigned decimal integer. Unlike strconv.ParseInt it
// rejects a leading sign, so "+3600s" and "-1d" stay unparsable in the unit
// and ISO shapes.
func parseDigits(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	value, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// OffsetLabelFor matches a duration in seconds against the canonical offsets
// within the tolerance window. The second return is false when no offset is
// close enough; callers drop such entries.
func OffsetLabelFor(seconds int64) (string, bool) {
	if seconds == 0 {
		return "", false
	}
	for _, label := range OffsetLabels {
		target := offsetSeconds[label]
		diff := seconds - target
		if diff < 0 {
			diff = -diff
		}
		if diff <= offsetTolerance {
			return label, true
		}
	}
	return "", false
}

// OffsetSeconds returns the duration of a canonical offset label.
// The second return is false for anything outside the canonical set.
func OffsetSeconds(label string) (int64, bool) {
	seconds, ok := offsetSeconds[label]
	return seconds, ok
}
