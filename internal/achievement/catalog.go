// Package achievement holds the achievement catalog and the idempotent
// evaluator that unlocks entries as user state crosses their criteria.
package achievement

import (
	"github.com/sproutcare/engagement-engine/internal/domain"
)

// Criteria is a pure predicate over user state. Criteria must be
// monotonic in practice (once true, they stay true), but the evaluator
// does not rely on it: idempotence comes from the unlocked-ID set.
type Criteria func(*domain.UserGamificationState) bool

// Definition pairs an achievement's static fields with its criteria
type Definition struct {
	ID          string
	Title       string
	Description string
	Points      int
	Category    string
	Criteria    Criteria
}

// Achievement categories
const (
	CategoryGettingStarted = "getting_started"
	CategoryConsistency    = "consistency"
	CategoryDedication     = "dedication"
	CategoryMilestones     = "milestones"
)

// Catalog returns the built-in achievement definitions
func Catalog() []Definition {
	return []Definition{
		{
			ID:          "first_log",
			Title:       "First Steps",
			Description: "Log your first care activity",
			Points:      10,
			Category:    CategoryGettingStarted,
			Criteria: func(s *domain.UserGamificationState) bool {
				return s.TotalActivities() >= 1
			},
		},
		{
			ID:          "busy_week",
			Title:       "Busy Week",
			Description: "Log 25 care activities",
			Points:      30,
			Category:    CategoryGettingStarted,
			Criteria: func(s *domain.UserGamificationState) bool {
				return s.TotalActivities() >= 25
			},
		},
		{
			ID:          "week_streak",
			Title:       "Seven in a Row",
			Description: "Keep any streak alive for 7 days",
			Points:      70,
			Category:    CategoryConsistency,
			Criteria: func(s *domain.UserGamificationState) bool {
				return s.LongestStreak() >= 7
			},
		},
		{
			ID:          "month_streak",
			Title:       "A Whole Month",
			Description: "Keep any streak alive for 30 days",
			Points:      300,
			Category:    CategoryConsistency,
			Criteria: func(s *domain.UserGamificationState) bool {
				return s.LongestStreak() >= 30
			},
		},
		{
			ID:          "level_5",
			Title:       "Seasoned Caregiver",
			Description: "Reach level 5",
			Points:      50,
			Category:    CategoryDedication,
			Criteria: func(s *domain.UserGamificationState) bool {
				return s.Level >= 5
			},
		},
		{
			ID:          "level_10",
			Title:       "Parenting Pro",
			Description: "Reach level 10",
			Points:      150,
			Category:    CategoryDedication,
			Criteria: func(s *domain.UserGamificationState) bool {
				return s.Level >= 10
			},
		},
		{
			ID:          "points_1000",
			Title:       "Point Collector",
			Description: "Earn 1000 points in total",
			Points:      100,
			Category:    CategoryDedication,
			Criteria: func(s *domain.UserGamificationState) bool {
				return s.TotalPoints >= 1000
			},
		},
		{
			ID:          "sleep_specialist",
			Title:       "Sleep Specialist",
			Description: "Log 50 sleep activities",
			Points:      100,
			Category:    CategoryMilestones,
			Criteria: func(s *domain.UserGamificationState) bool {
				return s.ActivityCounts[domain.KindSleep] >= 50
			},
		},
		{
			ID:          "milestone_moments",
			Title:       "Milestone Moments",
			Description: "Record 10 developmental milestones",
			Points:      120,
			Category:    CategoryMilestones,
			Criteria: func(s *domain.UserGamificationState) bool {
				return s.ActivityCounts[domain.KindMilestone] >= 10
			},
		},
		{
			ID:          "challenge_champion",
			Title:       "Challenge Champion",
			Description: "Complete 5 challenges",
			Points:      80,
			Category:    CategoryMilestones,
			Criteria: func(s *domain.UserGamificationState) bool {
				return len(s.CompletedChallenges) >= 5
			},
		},
	}
}

// ToAchievement converts a definition to its domain record
func (d Definition) ToAchievement() domain.Achievement {
	return domain.Achievement{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Points:      d.Points,
		Category:    d.Category,
	}
}
