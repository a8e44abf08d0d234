package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sproutcare/engagement-engine/internal/domain"
)

func TestMemoryBus_PublishAndSubscribe(t *testing.T) {
	bus := NewMemoryBus()

	var received []Event
	bus.Subscribe(Type(domain.EventTypePointsAwarded), func(ctx context.Context, evt Event) error {
		received = append(received, evt)
		return nil
	})

	state := domain.NewUserGamificationState("user-1")
	state.TotalPoints = 40
	evt := NewPointsAwardedEvent("user-1", 40, state, nil)

	err := bus.Publish(context.Background(), evt)
	require.NoError(t, err)
	require.Len(t, received, 1)

	payload, err := DecodePayload[PointsAwardedPayloadV1](received[0].Payload)
	require.NoError(t, err)
	assert.Equal(t, "user-1", payload.UserID)
	assert.Equal(t, 40, payload.Amount)
	assert.Equal(t, 40, payload.TotalPoints)
}

func TestMemoryBus_NoSubscribers(t *testing.T) {
	bus := NewMemoryBus()

	err := bus.Publish(context.Background(), Event{Type: Type("nobody_listens")})
	assert.NoError(t, err)
}

func TestMemoryBus_HandlerErrorDoesNotStopOthers(t *testing.T) {
	bus := NewMemoryBus()

	secondCalled := false
	bus.Subscribe(Type("t"), func(ctx context.Context, evt Event) error {
		return errors.New("handler failure")
	})
	bus.Subscribe(Type("t"), func(ctx context.Context, evt Event) error {
		secondCalled = true
		return nil
	})

	err := bus.Publish(context.Background(), Event{Type: Type("t")})
	assert.Error(t, err)
	assert.True(t, secondCalled, "second handler should run despite first failing")
}

func TestDecodePayload_TypedPassthrough(t *testing.T) {
	payload := StreakMilestonePayloadV1{
		UserID:      "user-1",
		Activity:    domain.KindSleep,
		Count:       7,
		GrantPoints: 25,
	}

	decoded, err := DecodePayload[StreakMilestonePayloadV1](payload)
	require.NoError(t, err)
	assert.Equal(t, payload, decoded)
}

func TestDecodePayload_MapRoundTrip(t *testing.T) {
	// Replayed events arrive as generic maps after JSON deserialization
	raw := map[string]interface{}{
		"user_id":  "user-1",
		"activity": "sleep",
		"count":    float64(7),
	}

	decoded, err := DecodePayload[StreakMilestonePayloadV1](raw)
	require.NoError(t, err)
	assert.Equal(t, "user-1", decoded.UserID)
	assert.Equal(t, domain.KindSleep, decoded.Activity)
	assert.Equal(t, 7, decoded.Count)
}

func TestEventConstructors_VersionAndType(t *testing.T) {
	state := domain.NewUserGamificationState("user-1")
	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		evt      Event
		wantType domain.EventType
	}{
		{"points awarded", NewPointsAwardedEvent("u", 10, state, nil), domain.EventTypePointsAwarded},
		{"achievement unlocked", NewAchievementUnlockedEvent("u", domain.Achievement{ID: "a"}), domain.EventTypeAchievementUnlocked},
		{"streak milestone", NewStreakMilestoneEvent("u", domain.KindSleep, 7, 25), domain.EventTypeStreakMilestone},
		{"streak broken", NewStreakBrokenEvent("u", domain.KindSleep, 4), domain.EventTypeStreakBroken},
		{"challenge completed", NewChallengeCompletedEvent("u", domain.Challenge{ID: "c"}), domain.EventTypeChallengeCompleted},
		{"challenge expired", NewChallengeExpiredEvent("u", domain.Challenge{ID: "c"}), domain.EventTypeChallengeExpired},
		{"reward claimed", NewRewardClaimedEvent("u", domain.Reward{ID: "r"}), domain.EventTypeRewardClaimed},
		{"daily reset complete", NewDailyResetCompleteEvent(now, 1, 0, 2, 3), domain.EventTypeDailyResetComplete},
		{"user inactive", NewUserInactiveEvent("u", now), domain.EventTypeUserInactive},
		{"state snapshot", NewStateSnapshotEvent(state, now), domain.EventTypeStateSnapshot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, EventSchemaVersion, tt.evt.Version)
			assert.Equal(t, Type(tt.wantType), tt.evt.Type)
		})
	}
}

func TestCalculateRetryDelay(t *testing.T) {
	base := 2 * time.Second

	assert.Equal(t, 2*time.Second, CalculateRetryDelay(base, 1))
	assert.Equal(t, 4*time.Second, CalculateRetryDelay(base, 2))
	assert.Equal(t, 8*time.Second, CalculateRetryDelay(base, 3))
	assert.Equal(t, 32*time.Second, CalculateRetryDelay(base, 5))
}
