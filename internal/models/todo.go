package models

import "time"

// Todo kinds. The kind decides which scheduling fields are meaningful:
// schedules carry a date-time range and an alarm set, every other kind
// carries a date-only range and may carry a repeat-days mask.
const (
	KindGeneral   = "GENERAL"
	KindWorkStudy = "WORK_STUDY"
	KindWorkout   = "WORKOUT"
	KindSchedule  = "SCHEDULE"
)

const (
	StatusPlanned   = "PLANNED"
	StatusDone      = "DONE"
	StatusCancelled = "CANCELLED"
	StatusExpired   = "EXPIRED"
)

type Todo struct {
	ID     string
	UserID string
	Title  string
	Kind   string
	Status string
	// RepeatDays is a weekday bitmask (Mon=1 .. Sun=64); zero means the
	// todo does not recur. Never set for KindSchedule.
	RepeatDays int
	// ActiveFrom and ActiveUntil are date-only (YYYY-MM-DD) for
	// non-schedule kinds and date-time (YYYY-MM-DDTHH:MM[:SS]) for
	// schedules. "" means unset.
	ActiveFrom  string
	ActiveUntil string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func IsValidKind(kind string) bool {
	switch kind {
	case KindGeneral, KindWorkStudy, KindWorkout, KindSchedule:
		return true
	}
	return false
}

// IsValidStatus checks membership only. Transitions are deliberately not
// validated; any status may move to any other.
func IsValidStatus(status string) bool {
	switch status {
	case StatusPlanned, StatusDone, StatusCancelled, StatusExpired:
		return true
	}
	return false
}
