package eventlog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sproutcare/engagement-engine/internal/domain"
	"github.com/sproutcare/engagement-engine/internal/event"
)

func TestSubscribe_LogsTypedPayloadAsMap(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)
	bus := event.NewMemoryBus()
	require.NoError(t, svc.Subscribe(bus))

	userID := "user-1"
	repo.On("LogEvent", mock.Anything, string(domain.EventTypeAchievementUnlocked), &userID,
		mock.MatchedBy(func(payload map[string]interface{}) bool {
			return payload["achievement_id"] == "first_log" && payload["user_id"] == "user-1"
		})).Return(nil)

	evt := event.NewAchievementUnlockedEvent("user-1", domain.Achievement{
		ID:     "first_log",
		Title:  "First Steps",
		Points: 10,
	})
	require.NoError(t, bus.Publish(context.Background(), evt))

	repo.AssertExpectations(t)
}

func TestSubscribe_EventWithoutUserID(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)
	bus := event.NewMemoryBus()
	require.NoError(t, svc.Subscribe(bus))

	repo.On("LogEvent", mock.Anything, string(domain.EventTypeDailyResetComplete),
		(*string)(nil), mock.Anything).Return(nil)

	evt := event.NewDailyResetCompleteEvent(time.Now(), 5, 0, 2, 1)
	require.NoError(t, bus.Publish(context.Background(), evt))

	repo.AssertExpectations(t)
}

func TestHandleEvent_RepositoryErrorPropagates(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)
	bus := event.NewMemoryBus()
	require.NoError(t, svc.Subscribe(bus))

	repo.On("LogEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(assert.AnError)

	evt := event.NewStreakBrokenEvent("user-1", domain.KindSleep, 4)
	err := bus.Publish(context.Background(), evt)
	assert.Error(t, err)
}

func TestCleanupJob_Process(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)
	job := NewCleanupJob(svc, 30)

	repo.On("CleanupOldEvents", mock.Anything, 30).Return(int64(12), nil)

	require.NoError(t, job.Process(context.Background()))
	repo.AssertExpectations(t)
}

func TestCleanupJob_ProcessError(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)
	job := NewCleanupJob(svc, 30)

	repo.On("CleanupOldEvents", mock.Anything, 30).Return(int64(0), assert.AnError)

	assert.Error(t, job.Process(context.Background()))
}

func TestGetEventsByUser(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)

	entries := []Entry{{ID: 1, EventType: string(domain.EventTypePointsAwarded)}}
	repo.On("GetEventsByUser", mock.Anything, "user-1", 20).Return(entries, nil)

	got, err := svc.GetEventsByUser(context.Background(), "user-1", 20)
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}
