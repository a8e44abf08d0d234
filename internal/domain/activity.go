package domain

import "time"

// EventType classifies an inbound ActivityEvent
type EventType string

// Inbound event types accepted by the engine
const (
	EventTypeActivityLog EventType = "activity_log"
	EventTypeMilestone   EventType = "milestone"
	EventTypeSocial      EventType = "social"
	EventTypeChallenge   EventType = "challenge"
)

// ActivityKind categorizes a logged care activity. Kinds are the streak key.
type ActivityKind string

// Known activity kinds
const (
	KindSleep     ActivityKind = "sleep"
	KindFeeding   ActivityKind = "feeding"
	KindDiaper    ActivityKind = "diaper"
	KindPlay      ActivityKind = "play"
	KindHealth    ActivityKind = "health"
	KindMilestone ActivityKind = "milestone"
	KindSocial    ActivityKind = "social"
)

// ActivityMetadata carries the optional event details the bonus rules read.
// Missing fields mean "no bonus", never an error.
type ActivityMetadata struct {
	WithPhoto bool   `json:"with_photo,omitempty"`
	Quality   string `json:"quality,omitempty"` // "high" triggers the quality bonus
	Weather   string `json:"weather,omitempty"` // rainy, sunny, snowy, severe
	Notes     string `json:"notes,omitempty"`
}

// ActivityEvent is the sole mutation trigger besides the reset sweep.
// Timestamp is the user-local time the activity happened.
type ActivityEvent struct {
	UserID    string           `json:"user_id"`
	Type      EventType        `json:"type"`
	Action    string           `json:"action"` // activity kind for activity_log events
	Metadata  ActivityMetadata `json:"metadata"`
	Timestamp time.Time        `json:"timestamp"`
}

// Kind resolves the activity kind the event counts toward.
// Milestones and social actions map to their own kinds so they can
// carry streaks and counters of their own.
func (e ActivityEvent) Kind() ActivityKind {
	switch e.Type {
	case EventTypeMilestone:
		return KindMilestone
	case EventTypeSocial:
		return KindSocial
	default:
		return ActivityKind(e.Action)
	}
}

// QualifiesForStreak reports whether the event advances a streak.
// Social actions and challenge payouts never touch streaks.
func (e ActivityEvent) QualifiesForStreak() bool {
	return e.Type == EventTypeActivityLog || e.Type == EventTypeMilestone
}
