package database

import "time"

// Connection pool settings
const (
	// DefaultMinConnections keeps a floor of warm connections so the first
	// request after an idle period does not pay the dial cost
	DefaultMinConnections = 2

	// DefaultHealthCheckPeriod is how often idle connections are checked
	DefaultHealthCheckPeriod = time.Minute

	// StartupPingTimeout bounds the connectivity check in NewPool
	StartupPingTimeout = 5 * time.Second
)

// Error messages
const (
	ErrMsgFailedToParseConnString = "failed to parse connection string"
	ErrMsgFailedToCreatePool      = "failed to create connection pool"
	ErrMsgFailedToPingDatabase    = "failed to ping database"
)

// Log messages
const (
	LogMsgDatabaseConnected = "Database connection established"
)
