package models

import "time"

// Notification feed event types. Only REMINDER and DEADLINE map onto alarm
// offsets; SUMMARY and TIMER entries pass through the feed untranslated.
const (
	EventReminder = "REMINDER"
	EventDeadline = "DEADLINE"
	EventSummary  = "SUMMARY"
	EventTimer    = "TIMER"
)

// Alarm is one stored alarm of a schedule todo: a canonical offset label
// anchored on either the todo's start (reminder) or its end (deadline).
type Alarm struct {
	ID      string
	TodoID  string
	Anchor  string // "reminder" or "deadline"
	Offset  string // 1h, 1d, 3d or 1w
	SentAt  *time.Time
	AddedAt time.Time
}

// Notify is a pending or delivered feed entry.
type Notify struct {
	ID         string
	UserID     string
	TodoID     string
	EventType  string
	Title      string
	Body       string
	RemainTime string
	SendAt     time.Time
	Link       string
}

// PushToken is a web-push registration for one user's browser. The endpoint
// doubles as the opaque token the client tracks for staleness checks.
type PushToken struct {
	UserID      string
	DeviceType  string
	BrowserType string
	Endpoint    string
	P256dh      string
	Auth        string
	Enabled     bool
	UpdatedAt   time.Time
}
