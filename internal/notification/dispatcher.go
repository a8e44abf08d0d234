package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/sproutcare/engagement-engine/internal/domain"
	"github.com/sproutcare/engagement-engine/internal/event"
	"github.com/sproutcare/engagement-engine/internal/logger"
)

// Dispatcher turns celebration-worthy bus events into notifications and fans
// them out to every configured sink. Sink failures are logged, never returned,
// so a slow or broken destination cannot stall event delivery.
type Dispatcher struct {
	sinks []Sink
	now   func() time.Time
}

// NewDispatcher creates a dispatcher writing to the given sinks.
func NewDispatcher(sinks ...Sink) *Dispatcher {
	return &Dispatcher{
		sinks: sinks,
		now:   time.Now,
	}
}

// Subscribe registers the dispatcher's handlers on the bus.
func (d *Dispatcher) Subscribe(bus event.Bus) {
	bus.Subscribe(domain.EventTypeAchievementUnlocked, d.handleAchievementUnlocked)
	bus.Subscribe(domain.EventTypeStreakMilestone, d.handleStreakMilestone)
	bus.Subscribe(domain.EventTypeChallengeCompleted, d.handleChallengeCompleted)
	bus.Subscribe(domain.EventTypeUserInactive, d.handleUserInactive)
}

func (d *Dispatcher) handleAchievementUnlocked(ctx context.Context, evt event.Event) error {
	payload, err := event.DecodePayload[event.AchievementUnlockedPayloadV1](evt.Payload)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgInvalidPayload, "type", evt.Type, "error", err)
		return nil
	}

	d.dispatch(ctx, Notification{
		UserID: payload.UserID,
		Kind:   KindAchievementUnlocked,
		Title:  "Achievement unlocked!",
		Body:   fmt.Sprintf("You earned %q (+%d points)", payload.Title, payload.Points),
	})
	return nil
}

func (d *Dispatcher) handleStreakMilestone(ctx context.Context, evt event.Event) error {
	payload, err := event.DecodePayload[event.StreakMilestonePayloadV1](evt.Payload)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgInvalidPayload, "type", evt.Type, "error", err)
		return nil
	}

	body := fmt.Sprintf("%d days of %s in a row", payload.Count, payload.Activity)
	if payload.GrantPoints > 0 {
		body = fmt.Sprintf("%s (+%d bonus points)", body, payload.GrantPoints)
	}
	d.dispatch(ctx, Notification{
		UserID: payload.UserID,
		Kind:   KindStreakMilestone,
		Title:  fmt.Sprintf("%d-day streak!", payload.Count),
		Body:   body,
	})
	return nil
}

func (d *Dispatcher) handleChallengeCompleted(ctx context.Context, evt event.Event) error {
	payload, err := event.DecodePayload[event.ChallengeCompletedPayloadV1](evt.Payload)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgInvalidPayload, "type", evt.Type, "error", err)
		return nil
	}

	d.dispatch(ctx, Notification{
		UserID: payload.UserID,
		Kind:   KindChallengeCompleted,
		Title:  "Challenge complete!",
		Body:   fmt.Sprintf("You finished %q and earned %d points", payload.Title, payload.RewardPoints),
	})
	return nil
}

func (d *Dispatcher) handleUserInactive(ctx context.Context, evt event.Event) error {
	payload, err := event.DecodePayload[event.UserInactivePayloadV1](evt.Payload)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgInvalidPayload, "type", evt.Type, "error", err)
		return nil
	}

	d.dispatch(ctx, Notification{
		UserID: payload.UserID,
		Kind:   KindUserInactive,
		Title:  "We miss you!",
		Body:   "Log an activity today to keep your streaks alive",
	})
	return nil
}

// dispatch sends to every sink. A failed sink does not stop the others.
func (d *Dispatcher) dispatch(ctx context.Context, n Notification) {
	log := logger.FromContext(ctx)
	n.OccurredAt = d.now().UTC()

	for _, sink := range d.sinks {
		if err := sink.Send(ctx, n); err != nil {
			log.Error(LogMsgSinkSendFailed, "kind", n.Kind, "userID", n.UserID, "error", err)
			continue
		}
	}
	log.Debug(LogMsgNotificationSent, "kind", n.Kind, "userID", n.UserID)
}
