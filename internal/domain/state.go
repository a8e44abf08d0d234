package domain

import "time"

// PointsTransaction is the immutable audit record of one point award.
// TotalPoints on the state is always the running sum of its transactions.
type PointsTransaction struct {
	ID           string       `json:"id"`
	ActivityType string       `json:"activity_type"`
	Points       int          `json:"points"`
	Description  string       `json:"description"`
	Timestamp    time.Time    `json:"timestamp"`
	Kind         ActivityKind `json:"kind,omitempty"`
}

// Streak tracks consecutive qualifying days for one activity kind.
type Streak struct {
	Activity    ActivityKind `json:"activity"`
	Count       int          `json:"count"`
	Longest     int          `json:"longest"`
	LastUpdated time.Time    `json:"last_updated"`
}

// Achievement is a one-time unlockable with a point bonus.
// UnlockedAt is set exactly once; the criteria predicate lives in the
// achievement catalog, not on the persisted record.
type Achievement struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Points      int        `json:"points"`
	Category    string     `json:"category"`
	UnlockedAt  *time.Time `json:"unlocked_at,omitempty"`
}

// ChallengeType distinguishes time-boxed from permanent challenges
type ChallengeType string

const (
	ChallengeDaily  ChallengeType = "daily"
	ChallengeWeekly ChallengeType = "weekly"
	ChallengeOneOff ChallengeType = "one_off"
)

// Challenge is an incremental goal with a reward payout on completion.
// Progress is clamped to [0, MaxProgress]; completion is one-way.
type Challenge struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Type         ChallengeType `json:"type"`
	Requirement  ActivityKind  `json:"requirement"` // empty means any activity counts
	Progress     int           `json:"progress"`
	MaxProgress  int           `json:"max_progress"`
	RewardPoints int           `json:"reward_points"`
	ExpiresAt    *time.Time    `json:"expires_at,omitempty"` // daily/weekly only
	CompletedAt  *time.Time    `json:"completed_at,omitempty"`
}

// Completed reports whether the challenge hit its target
func (c Challenge) Completed() bool {
	return c.Progress >= c.MaxProgress
}

// Reward is a claimable catalog entry. CostPoints and GrantPoints are
// mutually exclusive; Claimed transitions false→true exactly once.
type Reward struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	CostPoints  int        `json:"cost_points,omitempty"`
	GrantPoints int        `json:"grant_points,omitempty"`
	Claimed     bool       `json:"claimed"`
	ClaimedAt   *time.Time `json:"claimed_at,omitempty"`
}

// UserGamificationState is the aggregate root, one per user. The engine
// owns it exclusively while a mutation is in flight; the state store only
// ever sees committed snapshots.
type UserGamificationState struct {
	UserID                 string                   `json:"user_id"`
	TotalPoints            int                      `json:"total_points"`
	Level                  int                      `json:"level"`
	XPToNextLevel          int                      `json:"xp_to_next_level"`
	Streaks                map[ActivityKind]*Streak `json:"streaks"`
	ActivityCounts         map[ActivityKind]int     `json:"activity_counts"`
	UnlockedAchievementIDs map[string]time.Time     `json:"unlocked_achievements"`
	ActiveChallenges       []Challenge              `json:"active_challenges"`
	CompletedChallenges    []Challenge              `json:"completed_challenges"`
	Rewards                []Reward                 `json:"rewards,omitempty"`
	LastEventAt            time.Time                `json:"last_event_at"`
	UpdatedAt              time.Time                `json:"updated_at"`
}

// NewUserGamificationState creates an empty state for a user at level 1
func NewUserGamificationState(userID string) *UserGamificationState {
	return &UserGamificationState{
		UserID:                 userID,
		Level:                  1,
		Streaks:                make(map[ActivityKind]*Streak),
		ActivityCounts:         make(map[ActivityKind]int),
		UnlockedAchievementIDs: make(map[string]time.Time),
	}
}

// HasAchievement reports whether the achievement was already unlocked
func (s *UserGamificationState) HasAchievement(id string) bool {
	_, ok := s.UnlockedAchievementIDs[id]
	return ok
}

// TotalActivities sums all per-kind activity counters
func (s *UserGamificationState) TotalActivities() int {
	total := 0
	for _, n := range s.ActivityCounts {
		total += n
	}
	return total
}

// LongestStreak returns the best streak ever reached across all kinds
func (s *UserGamificationState) LongestStreak() int {
	longest := 0
	for _, st := range s.Streaks {
		if st.Longest > longest {
			longest = st.Longest
		}
		if st.Count > longest {
			longest = st.Count
		}
	}
	return longest
}

// Clone returns a deep copy safe to read outside the engine's per-user
// lock. Time pointers are shared: nothing ever writes through them, the
// mutation paths replace the pointer instead.
func (s *UserGamificationState) Clone() *UserGamificationState {
	if s == nil {
		return nil
	}

	c := *s
	c.Streaks = make(map[ActivityKind]*Streak, len(s.Streaks))
	for kind, st := range s.Streaks {
		copied := *st
		c.Streaks[kind] = &copied
	}
	c.ActivityCounts = make(map[ActivityKind]int, len(s.ActivityCounts))
	for kind, n := range s.ActivityCounts {
		c.ActivityCounts[kind] = n
	}
	c.UnlockedAchievementIDs = make(map[string]time.Time, len(s.UnlockedAchievementIDs))
	for id, at := range s.UnlockedAchievementIDs {
		c.UnlockedAchievementIDs[id] = at
	}
	c.ActiveChallenges = append([]Challenge(nil), s.ActiveChallenges...)
	c.CompletedChallenges = append([]Challenge(nil), s.CompletedChallenges...)
	c.Rewards = append([]Reward(nil), s.Rewards...)
	return &c
}
