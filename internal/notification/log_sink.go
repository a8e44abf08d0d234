package notification

import (
	"context"

	"github.com/sproutcare/engagement-engine/internal/logger"
)

// LogSink writes notifications to the structured log. It is the default sink
// when no webhook is configured and doubles as an audit trail alongside one.
type LogSink struct{}

// NewLogSink creates a log-backed sink.
func NewLogSink() *LogSink {
	return &LogSink{}
}

// Send logs the notification. It never fails.
func (s *LogSink) Send(ctx context.Context, n Notification) error {
	logger.FromContext(ctx).Info("notification",
		"kind", n.Kind,
		"userID", n.UserID,
		"title", n.Title,
		"body", n.Body,
	)
	return nil
}
