package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants.
const (
	ErrMsgMethodNotAllowed      = "Method not allowed"
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	ErrMsgMissingUserID = "user_id is required"
	ErrMsgInvalidLimit  = "Invalid limit parameter"

	ErrMsgProcessEventFailed   = "Failed to process event"
	ErrMsgGetStateFailed       = "Failed to retrieve gamification state"
	ErrMsgGetActivityFailed    = "Failed to retrieve recent activity"
	ErrMsgClaimRewardFailed    = "Failed to claim reward"
	ErrMsgTriggerResetFailed   = "Failed to trigger reset sweep"
	ErrMsgGetUserEventsFailed  = "Failed to retrieve user events"
)

// Success messages for API responses
const (
	MsgEventAcceptedSuccess = "Event processed successfully"
	MsgRewardClaimedSuccess = "Reward claimed successfully"
	MsgResetTriggered       = "Reset sweep triggered"
)
