// Package streak tracks consecutive qualifying days per (user, activity
// kind). Day arithmetic is calendar-based: several events on one day hold
// the streak, the next calendar day advances it, any longer gap resets it.
package streak

import (
	"time"

	"github.com/sproutcare/engagement-engine/internal/domain"
)

// milestoneGrants is the fixed milestone set. A zero grant means the
// milestone is notification-only; a positive grant is routed through the
// ledger by the caller.
var milestoneGrants = map[int]int{
	3:   0,
	7:   25,
	14:  0,
	30:  100,
	60:  0,
	90:  0,
	100: 500,
}

// Milestone describes a reached streak milestone
type Milestone struct {
	Count       int
	GrantPoints int
}

// UpdateResult reports what an Update did to the streak
type UpdateResult struct {
	Streak    *domain.Streak
	Advanced  bool       // count changed (extended or restarted)
	Milestone *Milestone // non-nil when the new count is a milestone
}

// Update applies a qualifying event on eventDate to the user's streak for
// the kind, creating it on first sight. Same-day repeats are no-ops; a
// one-day gap extends; anything larger restarts at 1.
func Update(state *domain.UserGamificationState, kind domain.ActivityKind, eventDate time.Time) UpdateResult {
	st, ok := state.Streaks[kind]
	if !ok {
		st = &domain.Streak{Activity: kind}
		state.Streaks[kind] = st
	}

	// A zero count means no live streak (new, or broken by the sweep)
	if st.Count == 0 {
		return restart(st, eventDate)
	}

	switch gap := daysBetween(st.LastUpdated, eventDate); {
	case gap <= 0:
		// Same calendar day (or an out-of-order older event): no inflation
		return UpdateResult{Streak: st}
	case gap == 1:
		st.Count++
		st.LastUpdated = eventDate
		if st.Count > st.Longest {
			st.Longest = st.Count
		}
		return UpdateResult{Streak: st, Advanced: true, Milestone: milestoneFor(st.Count)}
	default:
		return restart(st, eventDate)
	}
}

func restart(st *domain.Streak, eventDate time.Time) UpdateResult {
	st.Count = 1
	st.LastUpdated = eventDate
	if st.Longest < 1 {
		st.Longest = 1
	}
	return UpdateResult{Streak: st, Advanced: true, Milestone: milestoneFor(1)}
}

// Lapse breaks a streak whose last qualifying day is more than one full
// calendar day before now. Called by the reset sweep so stale streaks
// read correctly without waiting for the user's next event.
// Returns the broken streak length, or 0 if the streak still stands.
func Lapse(st *domain.Streak, now time.Time) int {
	if st.Count == 0 {
		return 0
	}
	if daysBetween(st.LastUpdated, now) <= 1 {
		return 0
	}
	broken := st.Count
	st.Count = 0
	return broken
}

// IsMilestone reports whether count is in the milestone set
func IsMilestone(count int) bool {
	_, ok := milestoneGrants[count]
	return ok
}

func milestoneFor(count int) *Milestone {
	grant, ok := milestoneGrants[count]
	if !ok {
		return nil
	}
	return &Milestone{Count: count, GrantPoints: grant}
}

// daysBetween counts calendar days from a to b, ignoring time of day
func daysBetween(a, b time.Time) int {
	return int(dateOf(b).Sub(dateOf(a)).Hours() / 24)
}

// dateOf normalizes a timestamp to its calendar date. The date is pinned
// to UTC only so day subtraction stays exact across DST transitions.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
