package eventlog

import (
	"context"
	"encoding/json"

	"github.com/sproutcare/engagement-engine/internal/domain"
	"github.com/sproutcare/engagement-engine/internal/event"
	"github.com/sproutcare/engagement-engine/internal/logger"
)

// Service handles event logging business logic
type Service interface {
	// Subscribe registers the event logger to listen to all engine events
	Subscribe(bus event.Bus) error

	// GetEventsByUser retrieves recent logged events for a user
	GetEventsByUser(ctx context.Context, userID string, limit int) ([]Entry, error)

	// CleanupOldEvents removes events older than retention period
	CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error)
}

type service struct {
	repo Repository
}

// NewService creates a new event logging service
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Subscribe registers event handlers for all engine event types
func (s *service) Subscribe(bus event.Bus) error {
	eventTypes := []event.Type{
		event.Type(domain.EventTypePointsAwarded),
		event.Type(domain.EventTypeAchievementUnlocked),
		event.Type(domain.EventTypeStreakMilestone),
		event.Type(domain.EventTypeStreakBroken),
		event.Type(domain.EventTypeChallengeCompleted),
		event.Type(domain.EventTypeChallengeExpired),
		event.Type(domain.EventTypeRewardClaimed),
		event.Type(domain.EventTypeDailyResetComplete),
		event.Type(domain.EventTypeUserInactive),
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, s.handleEvent)
	}

	return nil
}

// handleEvent persists events to the database. Typed payloads go through
// a JSON round-trip so the stored form matches the wire form.
func (s *service) handleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	payload, err := payloadAsMap(evt.Payload)
	if err != nil {
		log.Debug(LogMsgPayloadNotEncodable, LogFieldType, evt.Type, LogFieldError, err)
		return nil
	}

	var userID *string
	if uid, ok := payload[PayloadKeyUserID].(string); ok {
		userID = &uid
	}

	if err := s.repo.LogEvent(ctx, string(evt.Type), userID, payload); err != nil {
		log.Error(LogMsgFailedToLogEvent, LogFieldError, err, LogFieldType, evt.Type)
		return err
	}

	log.Debug(LogMsgEventLogged, LogFieldType, evt.Type, LogFieldUserID, userID)
	return nil
}

// GetEventsByUser retrieves recent logged events for a user
func (s *service) GetEventsByUser(ctx context.Context, userID string, limit int) ([]Entry, error) {
	return s.repo.GetEventsByUser(ctx, userID, limit)
}

// CleanupOldEvents removes events older than the retention period
func (s *service) CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error) {
	return s.repo.CleanupOldEvents(ctx, retentionDays)
}

func payloadAsMap(payload interface{}) (map[string]interface{}, error) {
	if m, ok := payload.(map[string]interface{}); ok {
		return m, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}
