package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Engine metric names
const (
	MetricNameActivityEventsProcessed = "activity_events_processed_total"
	MetricNamePointsAwarded           = "points_awarded_total"
	MetricNameAchievementsUnlocked    = "achievements_unlocked_total"
	MetricNameStreakMilestones        = "streak_milestones_total"
	MetricNameChallengesCompleted     = "challenges_completed_total"
	MetricNameRewardsClaimed          = "rewards_claimed_total"
	MetricNameResetSweeps             = "reset_sweeps_total"
	MetricNameResetSweepUserFailures  = "reset_sweep_user_failures_total"
	MetricNameStateFlushFailures      = "state_flush_failures_total"
)

// Worker metric names
const (
	MetricNameWorkerJobFailures = "worker_job_failures_total"
	MetricNameWorkerQueueDepth  = "worker_queue_depth"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Engine metric help text
const (
	HelpTextActivityEventsProcessed = "Total number of activity events processed"
	HelpTextPointsAwarded           = "Total points awarded across all users"
	HelpTextAchievementsUnlocked    = "Total number of achievements unlocked"
	HelpTextStreakMilestones        = "Total number of streak milestones reached"
	HelpTextChallengesCompleted     = "Total number of challenges completed"
	HelpTextRewardsClaimed          = "Total number of rewards claimed"
	HelpTextResetSweeps             = "Total number of daily reset sweeps executed"
	HelpTextResetSweepUserFailures  = "Total number of per-user failures during reset sweeps"
	HelpTextStateFlushFailures      = "Total number of failed state flushes to the store"
	HelpTextWorkerJobFailures       = "Total number of background jobs that returned an error"
	HelpTextWorkerQueueDepth        = "Number of jobs waiting in the worker pool queue"
)

// ============================================================================
// Metric Labels
// ============================================================================

const (
	LabelMethod       = "method"
	LabelPath         = "path"
	LabelStatus       = "status"
	LabelType         = "type"
	LabelEventType    = "event_type"
	LabelActivityKind = "activity_kind"
)

// HTTPLatencyBuckets are the histogram buckets for request latency in seconds
var HTTPLatencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}
