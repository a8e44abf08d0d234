package notification

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sproutcare/engagement-engine/internal/domain"
	"github.com/sproutcare/engagement-engine/internal/event"
)

// captureSink records every notification it receives.
type captureSink struct {
	mu   sync.Mutex
	sent []Notification
	err  error
}

func (s *captureSink) Send(_ context.Context, n Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, n)
	return nil
}

func (s *captureSink) notifications() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Notification(nil), s.sent...)
}

func TestDispatcher_AchievementUnlocked(t *testing.T) {
	sink := &captureSink{}
	bus := event.NewMemoryBus()
	NewDispatcher(sink).Subscribe(bus)

	achievement := domain.Achievement{
		ID:     "streak_7",
		Title:  "Week-Long Warrior",
		Points: 50,
	}
	err := bus.Publish(context.Background(), event.NewAchievementUnlockedEvent("user-1", achievement))
	require.NoError(t, err)

	sent := sink.notifications()
	require.Len(t, sent, 1)
	assert.Equal(t, "user-1", sent[0].UserID)
	assert.Equal(t, KindAchievementUnlocked, sent[0].Kind)
	assert.Contains(t, sent[0].Body, "Week-Long Warrior")
	assert.Contains(t, sent[0].Body, "50")
	assert.False(t, sent[0].OccurredAt.IsZero())
}

func TestDispatcher_StreakMilestone(t *testing.T) {
	sink := &captureSink{}
	bus := event.NewMemoryBus()
	NewDispatcher(sink).Subscribe(bus)

	err := bus.Publish(context.Background(), event.NewStreakMilestoneEvent("user-1", domain.KindSleep, 7, 25))
	require.NoError(t, err)

	sent := sink.notifications()
	require.Len(t, sent, 1)
	assert.Equal(t, KindStreakMilestone, sent[0].Kind)
	assert.Equal(t, "7-day streak!", sent[0].Title)
	assert.Contains(t, sent[0].Body, "sleep")
	assert.Contains(t, sent[0].Body, "+25 bonus points")
}

func TestDispatcher_StreakMilestone_NoGrant(t *testing.T) {
	sink := &captureSink{}
	bus := event.NewMemoryBus()
	NewDispatcher(sink).Subscribe(bus)

	// Milestones past the grant table still notify, without a bonus mention.
	err := bus.Publish(context.Background(), event.NewStreakMilestoneEvent("user-1", domain.KindFeeding, 365, 0))
	require.NoError(t, err)

	sent := sink.notifications()
	require.Len(t, sent, 1)
	assert.NotContains(t, sent[0].Body, "bonus")
}

func TestDispatcher_ChallengeCompleted(t *testing.T) {
	sink := &captureSink{}
	bus := event.NewMemoryBus()
	NewDispatcher(sink).Subscribe(bus)

	challenge := domain.Challenge{
		ID:           "daily_3",
		Title:        "Busy Day",
		Type:         domain.ChallengeDaily,
		Progress:     3,
		MaxProgress:  3,
		RewardPoints: 30,
	}
	err := bus.Publish(context.Background(), event.NewChallengeCompletedEvent("user-2", challenge))
	require.NoError(t, err)

	sent := sink.notifications()
	require.Len(t, sent, 1)
	assert.Equal(t, "user-2", sent[0].UserID)
	assert.Equal(t, KindChallengeCompleted, sent[0].Kind)
	assert.Contains(t, sent[0].Body, "Busy Day")
	assert.Contains(t, sent[0].Body, "30")
}

func TestDispatcher_UserInactive(t *testing.T) {
	sink := &captureSink{}
	bus := event.NewMemoryBus()
	NewDispatcher(sink).Subscribe(bus)

	err := bus.Publish(context.Background(), event.NewUserInactiveEvent("user-3", time.Now().Add(-72*time.Hour)))
	require.NoError(t, err)

	sent := sink.notifications()
	require.Len(t, sent, 1)
	assert.Equal(t, KindUserInactive, sent[0].Kind)
	assert.Equal(t, "We miss you!", sent[0].Title)
}

func TestDispatcher_SinkFailureDoesNotPropagate(t *testing.T) {
	failing := &captureSink{err: assert.AnError}
	working := &captureSink{}
	bus := event.NewMemoryBus()
	NewDispatcher(failing, working).Subscribe(bus)

	achievement := domain.Achievement{ID: "first_event", Title: "First Steps", Points: 10}
	err := bus.Publish(context.Background(), event.NewAchievementUnlockedEvent("user-1", achievement))
	require.NoError(t, err)

	assert.Empty(t, failing.notifications())
	assert.Len(t, working.notifications(), 1)
}

func TestDispatcher_IgnoresMalformedPayload(t *testing.T) {
	sink := &captureSink{}
	bus := event.NewMemoryBus()
	NewDispatcher(sink).Subscribe(bus)

	err := bus.Publish(context.Background(), event.Event{
		Version: event.EventSchemaVersion,
		Type:    domain.EventTypeAchievementUnlocked,
		Payload: "not a payload",
	})
	require.NoError(t, err)
	assert.Empty(t, sink.notifications())
}
