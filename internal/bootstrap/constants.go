package bootstrap

import "time"

// File system permissions
const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0755
)

// Database pool configuration
const (
	// DBMaxConnections is the maximum number of pooled database connections
	DBMaxConnections = 10

	// DBMaxIdleTime is how long a connection may sit idle before being closed
	DBMaxIdleTime = 5 * time.Minute

	// DBMaxLifetime is the maximum lifetime of a pooled connection
	DBMaxLifetime = 30 * time.Minute
)

// Background job intervals
const (
	// InactivityScanInterval is how often the inactivity scan runs
	InactivityScanInterval = 1 * time.Hour

	// EventLogCleanupInterval is how often old logged events are pruned
	EventLogCleanupInterval = 24 * time.Hour
)

// Log messages for event system initialization
const (
	LogMsgEventSystemInitialized         = "Event system initialized"
	LogMsgFailedCreateDeadLetterDir      = "failed to create dead-letter directory"
	LogMsgFailedCreateResilientPublisher = "failed to create resilient publisher"
)

// Log messages for event handler registration
const (
	LogMsgEventLoggerInitialized     = "Event logger initialized"
	LogMsgNotifierInitialized        = "Notification dispatcher initialized"
	ErrMsgFailedSubscribeEventLogger = "failed to subscribe event logger"
)

// Shutdown messages
const (
	LogMsgShuttingDownServer         = "Shutting down server..."
	LogMsgShuttingDownEventPublisher = "Shutting down event publisher..."
	LogMsgServerStopped              = "Server stopped"
	LogMsgServerForcedShutdown       = "Server forced to shutdown"
	LogMsgEngineShutdownFailed       = "Engine shutdown failed"
	LogMsgResetWorkerShutdownFailed  = "Daily reset worker shutdown failed"
	LogMsgResilientPublisherFailed   = "Resilient publisher shutdown failed"
)
