package worker

import "time"

// LogMsgWorkerJobFailed is logged when a worker fails to process a job
const LogMsgWorkerJobFailed = "Worker job failed"

// Log messages for daily reset worker operations
const (
	LogMsgDailyResetStarting      = "Daily reset sweep starting"
	LogMsgDailyResetCompleted     = "Daily reset sweep completed"
	LogMsgDailyResetFailed        = "Daily reset sweep failed"
	LogMsgDailyResetStandby       = "Daily reset standing by"
	LogMsgDailyResetApproach      = "Daily reset scheduled"
	LogMsgDailyResetManualTrigger = "Daily reset manually triggered"
)

// Two-stage scheduling parameters. Waits longer than StandbyThreshold
// park in standby and wake StandbyLeadTime before midnight; the final
// approach timer fires the sweep. JitterTolerance absorbs early timer
// triggers without a tight reschedule loop.
const (
	StandbyThreshold = 1 * time.Hour
	StandbyLeadTime  = 45 * time.Minute
	JitterTolerance  = 10 * time.Second
)
