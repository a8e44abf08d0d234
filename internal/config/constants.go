package config

// Default configuration values
const (
	DefaultServiceName = "engagement-engine"
	DefaultPort        = 8080

	DefaultWorkerCount     = 4
	DefaultWorkerQueueSize = 64

	DefaultStateCacheSize           = 1024
	DefaultSnapshotIntervalMinutes  = 5
	DefaultInactivityThresholdHours = 48

	DefaultDeadLetterPath = "deadletter.jsonl"
)
