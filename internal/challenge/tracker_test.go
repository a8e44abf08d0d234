package challenge

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sproutcare/engagement-engine/internal/domain"
)

func newTracker(opts ...Option) *Tracker {
	counter := 0
	gen := func() string {
		counter++
		return fmt.Sprintf("challenge-%d", counter)
	}
	return NewTracker(append([]Option{WithIDGenerator(gen)}, opts...)...)
}

func TestSeed_CreatesAllTemplates(t *testing.T) {
	tr := newTracker()
	state := domain.NewUserGamificationState("user-1")
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC) // Wednesday

	seeded := tr.Seed(state, now, time.UTC)

	require.Len(t, seeded, len(DefaultTemplates()))
	assert.Len(t, state.ActiveChallenges, len(DefaultTemplates()))

	for _, c := range state.ActiveChallenges {
		assert.Zero(t, c.Progress)
		assert.Nil(t, c.CompletedAt)
		require.NotNil(t, c.ExpiresAt, "daily/weekly challenges need an expiry")
	}
}

func TestSeed_Idempotent(t *testing.T) {
	tr := newTracker()
	state := domain.NewUserGamificationState("user-1")
	now := time.Now()

	first := tr.Seed(state, now, time.UTC)
	require.NotEmpty(t, first)

	second := tr.Seed(state, now, time.UTC)
	assert.Empty(t, second)
	assert.Len(t, state.ActiveChallenges, len(DefaultTemplates()))
}

func TestSeed_ExpiryWindows(t *testing.T) {
	tr := newTracker()
	state := domain.NewUserGamificationState("user-1")
	now := time.Date(2026, 3, 4, 15, 30, 0, 0, time.UTC) // Wednesday

	tr.Seed(state, now, time.UTC)

	byTitle := make(map[string]domain.Challenge)
	for _, c := range state.ActiveChallenges {
		byTitle[c.Title] = c
	}

	daily := byTitle["Daily Dozen"]
	assert.Equal(t, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), *daily.ExpiresAt)

	weekly := byTitle["Full Week"]
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), *weekly.ExpiresAt, "weekly window ends Monday midnight")
}

func TestRecordActivity_MatchingAndCompletion(t *testing.T) {
	tr := newTracker(WithTemplates([]Template{
		{Title: "Any Two", Type: domain.ChallengeDaily, MaxProgress: 2, RewardPoints: 20},
		{Title: "One Sleep", Type: domain.ChallengeDaily, Requirement: domain.KindSleep, MaxProgress: 1, RewardPoints: 10},
	}))
	state := domain.NewUserGamificationState("user-1")
	now := time.Now()
	tr.Seed(state, now, time.UTC)

	// Play matches only the unrestricted challenge
	completed := tr.RecordActivity(state, domain.KindPlay, now)
	assert.Empty(t, completed)
	assert.Equal(t, 1, state.ActiveChallenges[0].Progress)
	assert.Equal(t, 0, state.ActiveChallenges[1].Progress)

	// Sleep completes the sleep challenge and advances the open one
	completed = tr.RecordActivity(state, domain.KindSleep, now)
	require.Len(t, completed, 2)

	titles := []string{completed[0].Title, completed[1].Title}
	assert.Contains(t, titles, "Any Two")
	assert.Contains(t, titles, "One Sleep")
	assert.Empty(t, state.ActiveChallenges)
	assert.Len(t, state.CompletedChallenges, 2)
	for _, c := range state.CompletedChallenges {
		require.NotNil(t, c.CompletedAt)
		assert.True(t, c.Completed())
	}
}

func TestRecordActivity_CompletionIsOneWay(t *testing.T) {
	tr := newTracker(WithTemplates([]Template{
		{Title: "One Feed", Type: domain.ChallengeDaily, Requirement: domain.KindFeeding, MaxProgress: 1, RewardPoints: 10},
	}))
	state := domain.NewUserGamificationState("user-1")
	now := time.Now()
	tr.Seed(state, now, time.UTC)

	completed := tr.RecordActivity(state, domain.KindFeeding, now)
	require.Len(t, completed, 1)

	// Further matching activity finds nothing active to advance
	completed = tr.RecordActivity(state, domain.KindFeeding, now)
	assert.Empty(t, completed)
	require.Len(t, state.CompletedChallenges, 1)
	assert.Equal(t, 1, state.CompletedChallenges[0].Progress)
}

func TestRecordActivity_ProgressClamped(t *testing.T) {
	tr := newTracker(WithTemplates([]Template{
		{Title: "Open Ended", Type: domain.ChallengeOneOff, MaxProgress: 3, RewardPoints: 30},
	}))
	state := domain.NewUserGamificationState("user-1")
	now := time.Now()
	tr.Seed(state, now, time.UTC)

	for i := 0; i < 5; i++ {
		tr.RecordActivity(state, domain.KindDiaper, now)
	}

	require.Len(t, state.CompletedChallenges, 1)
	assert.Equal(t, 3, state.CompletedChallenges[0].Progress)
}

func TestExpireDue(t *testing.T) {
	tr := newTracker()
	state := domain.NewUserGamificationState("user-1")
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

	tr.Seed(state, now, time.UTC)
	total := len(state.ActiveChallenges)

	// Nothing is due mid-window
	expired := tr.ExpireDue(state, now)
	assert.Empty(t, expired)
	assert.Len(t, state.ActiveChallenges, total)

	// Crossing midnight expires the dailies but not the weeklies
	nextDay := time.Date(2026, 3, 5, 0, 0, 1, 0, time.UTC)
	expired = tr.ExpireDue(state, nextDay)
	require.Len(t, expired, 2)
	for _, c := range expired {
		assert.Equal(t, domain.ChallengeDaily, c.Type)
		assert.Nil(t, c.CompletedAt)
	}
	assert.Len(t, state.ActiveChallenges, total-2)
}

func TestExpireDue_OneOffNeverExpires(t *testing.T) {
	tr := newTracker(WithTemplates([]Template{
		{Title: "Forever", Type: domain.ChallengeOneOff, MaxProgress: 100, RewardPoints: 500},
	}))
	state := domain.NewUserGamificationState("user-1")
	tr.Seed(state, time.Now(), time.UTC)

	expired := tr.ExpireDue(state, time.Now().AddDate(1, 0, 0))
	assert.Empty(t, expired)
	assert.Len(t, state.ActiveChallenges, 1)
}

func TestSeed_CompletedInstanceBlocksUntilWindowRolls(t *testing.T) {
	tr := newTracker()
	state := domain.NewUserGamificationState("user-1")
	morning := time.Date(2026, 3, 4, 8, 0, 0, 0, time.UTC)

	tr.Seed(state, morning, time.UTC)
	completed := tr.RecordActivity(state, domain.KindSleep, morning)
	require.NotEmpty(t, completed)

	// Same window: the completed daily must not come back.
	evening := morning.Add(10 * time.Hour)
	for _, c := range tr.Seed(state, evening, time.UTC) {
		assert.NotEqual(t, "Sleep Watch", c.Title)
	}
	titles := make(map[string]int)
	for _, c := range state.ActiveChallenges {
		titles[c.Title]++
	}
	assert.Zero(t, titles["Sleep Watch"])

	// Next day the rotation starts fresh.
	nextDay := morning.AddDate(0, 0, 1)
	seeded := tr.Seed(state, nextDay, time.UTC)
	reseeded := false
	for _, c := range seeded {
		if c.Title == "Sleep Watch" {
			reseeded = true
		}
	}
	assert.True(t, reseeded, "completed daily returns after its window closes")
}

func TestSeed_CompletedOneOffNeverReturns(t *testing.T) {
	tr := newTracker(WithTemplates([]Template{{
		Title:        "First Log",
		Type:         domain.ChallengeOneOff,
		MaxProgress:  1,
		RewardPoints: 5,
	}}))
	state := domain.NewUserGamificationState("user-1")
	now := time.Now()

	tr.Seed(state, now, time.UTC)
	require.NotEmpty(t, tr.RecordActivity(state, domain.KindPlay, now))

	assert.Empty(t, tr.Seed(state, now.AddDate(0, 0, 30), time.UTC))
}
