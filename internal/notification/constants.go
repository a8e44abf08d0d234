package notification

// Notification kinds, one per subscribed event type.
const (
	KindAchievementUnlocked = "achievement_unlocked"
	KindStreakMilestone     = "streak_milestone"
	KindChallengeCompleted  = "challenge_completed"
	KindUserInactive        = "user_inactive"
)

// Log messages
const (
	LogMsgSinkSendFailed   = "Failed to deliver notification"
	LogMsgInvalidPayload   = "Invalid payload for notification event"
	LogMsgNotificationSent = "Notification dispatched"
	LogMsgWebhookBadStatus = "webhook returned non-success status"
)
