package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	APIKey      string // API key for authentication
	LogLevel    string
	LogFormat   string
	Environment string
	Version     string
	ServiceName string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	// ResetTimezone is the IANA timezone whose midnight drives the daily
	// reset sweep (e.g. "Europe/Berlin"). Defaults to UTC.
	ResetTimezone string

	WorkerCount     int
	WorkerQueueSize int

	StateCacheSize      int
	SnapshotInterval    time.Duration
	InactivityThreshold time.Duration

	DeadLetterPath string

	// NotifyWebhookURL is an optional endpoint for outbound notifications.
	// Empty means log-only delivery.
	NotifyWebhookURL string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		APIKey:           getEnv("API_KEY", ""),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "text"),
		Environment:      getEnv("ENVIRONMENT", "dev"),
		Version:          getEnv("VERSION", "dev"),
		ServiceName:      getEnv("SERVICE_NAME", DefaultServiceName),
		DBUser:           getEnv("DB_USER", "postgres"),
		DBPassword:       getEnv("DB_PASSWORD", "postgres"),
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           getEnv("DB_PORT", "5432"),
		DBName:           getEnv("DB_NAME", "engagement"),
		ResetTimezone:    getEnv("RESET_TIMEZONE", "UTC"),
		DeadLetterPath:   getEnv("DEAD_LETTER_PATH", DefaultDeadLetterPath),
		NotifyWebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
	}

	port, err := getEnvInt("PORT", DefaultPort)
	if err != nil {
		return nil, err
	}
	cfg.Port = port

	if cfg.WorkerCount, err = getEnvInt("WORKER_COUNT", DefaultWorkerCount); err != nil {
		return nil, err
	}
	if cfg.WorkerQueueSize, err = getEnvInt("WORKER_QUEUE_SIZE", DefaultWorkerQueueSize); err != nil {
		return nil, err
	}
	if cfg.StateCacheSize, err = getEnvInt("STATE_CACHE_SIZE", DefaultStateCacheSize); err != nil {
		return nil, err
	}

	snapshotMinutes, err := getEnvInt("SNAPSHOT_INTERVAL_MINUTES", DefaultSnapshotIntervalMinutes)
	if err != nil {
		return nil, err
	}
	cfg.SnapshotInterval = time.Duration(snapshotMinutes) * time.Minute

	inactivityHours, err := getEnvInt("INACTIVITY_THRESHOLD_HOURS", DefaultInactivityThresholdHours)
	if err != nil {
		return nil, err
	}
	cfg.InactivityThreshold = time.Duration(inactivityHours) * time.Hour

	// Validate API key is set
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}

	// Validate the reset timezone is resolvable up front, not at first sweep
	if _, err := time.LoadLocation(cfg.ResetTimezone); err != nil {
		return nil, fmt.Errorf("invalid RESET_TIMEZONE value %q: %w", cfg.ResetTimezone, err)
	}

	return cfg, nil
}

// ResetLocation resolves the configured reset timezone.
// Load has already validated it, so failure here falls back to UTC.
func (c *Config) ResetLocation() *time.Location {
	loc, err := time.LoadLocation(c.ResetTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return n, nil
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
