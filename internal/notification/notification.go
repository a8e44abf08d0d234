package notification

import (
	"context"
	"time"
)

// Notification is a human-readable message derived from a gamification event.
// Sinks receive the same notification regardless of transport.
type Notification struct {
	UserID     string    `json:"user_id"`
	Kind       string    `json:"kind"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Sink delivers notifications to some destination. Implementations must be
// safe for concurrent use; delivery failures are the sink's to report, the
// dispatcher never retries.
type Sink interface {
	Send(ctx context.Context, n Notification) error
}
