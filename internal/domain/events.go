package domain

// Event type constants used across the application for event bus subscriptions
// and metrics tracking. These represent domain events that can be published
// and consumed by multiple modules.
//
// Event types follow the pattern: <entity>.<action> (e.g., "points.awarded")
const (
	// EventTypePointsAwarded is published after a ledger mutation commits
	EventTypePointsAwarded = "points.awarded"

	// EventTypeAchievementUnlocked is published the one time an achievement unlocks
	EventTypeAchievementUnlocked = "achievement.unlocked"

	// EventTypeStreakMilestone is published when a streak reaches a milestone length
	EventTypeStreakMilestone = "streak.milestone"

	// EventTypeStreakBroken is published when the reset sweep breaks a stale streak
	EventTypeStreakBroken = "streak.broken"

	// EventTypeChallengeCompleted is published when a challenge reaches max progress
	EventTypeChallengeCompleted = "challenge.completed"

	// EventTypeChallengeExpired is published when the reset sweep drops an
	// incomplete daily or weekly challenge
	EventTypeChallengeExpired = "challenge.expired"

	// EventTypeRewardClaimed is published on the first successful claim of a reward
	EventTypeRewardClaimed = "reward.claimed"

	// EventTypeStateSnapshot is published after a state flush to the store
	EventTypeStateSnapshot = "state.snapshot"

	// EventTypeDailyResetComplete is published when the midnight sweep finishes
	EventTypeDailyResetComplete = "daily_reset.complete"

	// EventTypeUserInactive is published when the inactivity scan finds a user
	// with no qualifying event past the configured threshold
	EventTypeUserInactive = "user.inactive"
)
