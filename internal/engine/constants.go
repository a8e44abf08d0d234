package engine

// Transaction activity types for engine-authored grants
const (
	StreakTransactionType     = "streak_milestone"
	RewardCostTransactionType = "reward_cost"
	RewardGiftTransactionType = "reward_gift"
)

// DefaultStateCacheSize bounds the hot-state LRU when no size is configured
const DefaultStateCacheSize = 1024

// Log messages - event processing
const (
	LogMsgEventMissingTimestamp = "Event arrived without timestamp, using current time"
	LogMsgEventMissingType      = "Event arrived without type, treating as activity log"
	LogMsgEventUnknownAction    = "Event action not recognized, base points fall back"
	LogMsgEventProcessed        = "Activity event processed"
	LogMsgStateFlushFailed      = "State flush failed, in-memory state stays authoritative"
	LogMsgTransactionLogFailed  = "Transaction append failed"
)

// Log messages - reward claims
const (
	LogMsgRewardAlreadyClaimed = "Reward already claimed, returning state unchanged"
	LogMsgRewardClaimed        = "Reward claimed"
)

// Log messages - reset sweep
const (
	LogMsgSweepStarting   = "Starting reset sweep"
	LogMsgSweepUserFailed = "Reset sweep failed for user, continuing"
	LogMsgSweepComplete   = "Reset sweep complete"
	LogMsgSweepCancelled  = "Reset sweep cancelled, remaining users skipped"
)

// Log messages - snapshots and inactivity
const (
	LogMsgSnapshotFlush       = "Flushing cached states"
	LogMsgInactiveUserFound   = "Inactive user detected"
	LogMsgInactivityScanDone  = "Inactivity scan complete"
	LogMsgEngineShuttingDown  = "Engine shutting down, flushing state"
)

// Log field keys
const (
	LogFieldUserID     = "user_id"
	LogFieldEventType  = "event_type"
	LogFieldAction     = "action"
	LogFieldPoints     = "points"
	LogFieldLevel      = "level"
	LogFieldRewardID   = "reward_id"
	LogFieldError      = "error"
	LogFieldSwept      = "swept"
	LogFieldFailed     = "failed"
	LogFieldExpired    = "expired"
	LogFieldBroken     = "broken"
	LogFieldFlushed    = "flushed"
	LogFieldInactive   = "inactive"
	LogFieldThreshold  = "threshold"
)
