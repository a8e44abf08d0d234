package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sproutcare/engagement-engine/internal/engine"
)

// MockResetService for testing
type MockResetService struct {
	mock.Mock
}

func (m *MockResetService) ResetSweep(ctx context.Context, now time.Time) (engine.SweepSummary, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(engine.SweepSummary), args.Error(1)
}

// TestTimeUntilNextReset tests reset time calculation
func TestTimeUntilNextReset(t *testing.T) {
	location := time.FixedZone("UTC+2", 2*60*60)
	tests := []struct {
		name string
		now  time.Time
		want func(d time.Duration) bool
	}{
		{
			name: "01:00 local should be ~23 hours until next reset",
			now:  time.Date(2026, 2, 2, 1, 0, 0, 0, location),
			want: func(d time.Duration) bool {
				return d > 22*time.Hour && d < 24*time.Hour
			},
		},
		{
			name: "23:59 local should be ~1 minute until next reset",
			now:  time.Date(2026, 2, 2, 23, 59, 0, 0, location),
			want: func(d time.Duration) bool {
				return d > 0 && d < 2*time.Minute
			},
		},
		{
			name: "exactly midnight rolls to the next day",
			now:  time.Date(2026, 2, 2, 0, 0, 0, 0, location),
			want: func(d time.Duration) bool {
				return d == 24*time.Hour
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := time.Date(tt.now.Year(), tt.now.Month(), tt.now.Day(), 0, 0, 0, 0, location)
			if !next.After(tt.now) {
				next = next.AddDate(0, 0, 1)
			}
			d := next.Sub(tt.now)

			assert.Greater(t, d, time.Duration(0))
			assert.LessOrEqual(t, d, 24*time.Hour)
			assert.True(t, tt.want(d))
		})
	}
}

// TestDailyResetWorkerStart tests that worker schedules a reset
func TestDailyResetWorkerStart(t *testing.T) {
	svc := new(MockResetService)
	w := NewDailyResetWorker(svc, time.UTC)

	w.Start()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, w.Shutdown(ctx))
}

// TestDailyResetWorkerShutdown tests graceful shutdown
func TestDailyResetWorkerShutdown(t *testing.T) {
	svc := new(MockResetService)
	w := NewDailyResetWorker(svc, time.UTC)
	w.Start()

	time.Sleep(100 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, w.Shutdown(ctx))
}

// TestDailyResetWorkerTriggerNow tests the manual trigger path
func TestDailyResetWorkerTriggerNow(t *testing.T) {
	svc := new(MockResetService)
	svc.On("ResetSweep", mock.Anything, mock.Anything).
		Return(engine.SweepSummary{UsersSwept: 3, ChallengesExpired: 4}, nil)

	w := NewDailyResetWorker(svc, time.UTC)

	summary, err := w.TriggerNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.UsersSwept)
	assert.Equal(t, 4, summary.ChallengesExpired)
	svc.AssertExpectations(t)
}

// TestDailyResetWorkerNilLocationDefaultsUTC tests the location fallback
func TestDailyResetWorkerNilLocationDefaultsUTC(t *testing.T) {
	w := NewDailyResetWorker(new(MockResetService), nil)
	assert.Equal(t, time.UTC, w.location)
}
