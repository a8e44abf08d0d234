// Package challenge manages incremental challenge progress: seeding the
// daily and weekly rotations, advancing progress as activities land, and
// sweeping out expired entries.
package challenge

import (
	"time"

	"github.com/google/uuid"

	"github.com/sproutcare/engagement-engine/internal/domain"
)

// TransactionType labels ledger transactions created by challenge rewards
const TransactionType = "challenge"

// Template is a reusable challenge blueprint; instances get fresh IDs
// and expiry windows each rotation.
type Template struct {
	Title        string
	Type         domain.ChallengeType
	Requirement  domain.ActivityKind // empty means any activity counts
	MaxProgress  int
	RewardPoints int
}

// DefaultTemplates returns the built-in challenge rotation
func DefaultTemplates() []Template {
	return []Template{
		{
			Title:        "Daily Dozen",
			Type:         domain.ChallengeDaily,
			MaxProgress:  3,
			RewardPoints: 20,
		},
		{
			Title:        "Sleep Watch",
			Type:         domain.ChallengeDaily,
			Requirement:  domain.KindSleep,
			MaxProgress:  1,
			RewardPoints: 10,
		},
		{
			Title:        "Full Week",
			Type:         domain.ChallengeWeekly,
			MaxProgress:  15,
			RewardPoints: 75,
		},
		{
			Title:        "Playtime Pro",
			Type:         domain.ChallengeWeekly,
			Requirement:  domain.KindPlay,
			MaxProgress:  5,
			RewardPoints: 40,
		},
	}
}

// Tracker seeds, advances and expires challenges on user state
type Tracker struct {
	templates []Template
	newID     func() string
}

// Option configures the Tracker
type Option func(*Tracker)

// WithIDGenerator overrides the challenge ID source for deterministic tests
func WithIDGenerator(gen func() string) Option {
	return func(t *Tracker) {
		t.newID = gen
	}
}

// WithTemplates replaces the default rotation
func WithTemplates(templates []Template) Option {
	return func(t *Tracker) {
		t.templates = templates
	}
}

// NewTracker creates a tracker over the default templates
func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{
		templates: DefaultTemplates(),
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Seed instantiates any template the user has no live instance of. A
// template is live when an active challenge carries its title, or a
// completed instance's window has not yet rolled over, so re-seeding
// mid-window is a no-op either way. A completed one-off never re-seeds.
func (t *Tracker) Seed(state *domain.UserGamificationState, now time.Time, loc *time.Location) []domain.Challenge {
	live := make(map[string]bool, len(state.ActiveChallenges))
	for _, c := range state.ActiveChallenges {
		live[c.Title] = true
	}
	for _, c := range state.CompletedChallenges {
		if c.ExpiresAt == nil || now.Before(*c.ExpiresAt) {
			live[c.Title] = true
		}
	}

	var seeded []domain.Challenge
	for _, tpl := range t.templates {
		if live[tpl.Title] {
			continue
		}

		c := domain.Challenge{
			ID:           t.newID(),
			Title:        tpl.Title,
			Type:         tpl.Type,
			Requirement:  tpl.Requirement,
			MaxProgress:  tpl.MaxProgress,
			RewardPoints: tpl.RewardPoints,
		}
		if exp, ok := expiryFor(tpl.Type, now, loc); ok {
			c.ExpiresAt = &exp
		}

		state.ActiveChallenges = append(state.ActiveChallenges, c)
		seeded = append(seeded, c)
	}
	return seeded
}

// RecordActivity advances every active challenge matching the activity
// kind and returns the ones that just completed. Progress clamps at
// MaxProgress and completion is one-way: completed challenges move to
// the completed list and never accept further progress.
func (t *Tracker) RecordActivity(state *domain.UserGamificationState, kind domain.ActivityKind, now time.Time) []domain.Challenge {
	var completed []domain.Challenge
	remaining := state.ActiveChallenges[:0]

	for i := range state.ActiveChallenges {
		c := state.ActiveChallenges[i]

		if c.Requirement != "" && c.Requirement != kind {
			remaining = append(remaining, c)
			continue
		}

		if c.Progress < c.MaxProgress {
			c.Progress++
		}

		if c.Completed() {
			completedAt := now
			c.CompletedAt = &completedAt
			state.CompletedChallenges = append(state.CompletedChallenges, c)
			completed = append(completed, c)
			continue
		}

		remaining = append(remaining, c)
	}

	state.ActiveChallenges = remaining
	return completed
}

// ExpireDue removes active challenges whose window has closed without
// completion and returns them. Expired progress is discarded, not
// carried into the next rotation.
func (t *Tracker) ExpireDue(state *domain.UserGamificationState, now time.Time) []domain.Challenge {
	var expired []domain.Challenge
	remaining := state.ActiveChallenges[:0]

	for i := range state.ActiveChallenges {
		c := state.ActiveChallenges[i]
		if c.ExpiresAt != nil && !now.Before(*c.ExpiresAt) {
			expired = append(expired, c)
			continue
		}
		remaining = append(remaining, c)
	}

	state.ActiveChallenges = remaining
	return expired
}

// expiryFor computes the end of the current daily or weekly window in
// the given location. One-off challenges never expire.
func expiryFor(challengeType domain.ChallengeType, now time.Time, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, loc)

	switch challengeType {
	case domain.ChallengeDaily:
		return midnight, true
	case domain.ChallengeWeekly:
		// windows end on the next Monday midnight
		days := (int(time.Monday) - int(midnight.Weekday()) + 7) % 7
		return midnight.AddDate(0, 0, days), true
	default:
		return time.Time{}, false
	}
}
