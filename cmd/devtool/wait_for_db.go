package main

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	dbWaitAttempts = 30
	dbWaitInterval = 2 * time.Second
)

type WaitForDBCommand struct{}

func (c *WaitForDBCommand) Name() string {
	return "wait-for-db"
}

func (c *WaitForDBCommand) Description() string {
	return "Wait for the database to accept connections (with retries)"
}

func (c *WaitForDBCommand) Run(args []string) error {
	PrintHeader("Waiting for database")
	dbURL := databaseURL()

	var lastErr error
	for attempt := 1; attempt <= dbWaitAttempts; attempt++ {
		if lastErr = pingDatabase(dbURL); lastErr == nil {
			PrintSuccess("Database is ready")
			return nil
		}
		PrintInfo("Database not ready (%d/%d): %v", attempt, dbWaitAttempts, lastErr)
		time.Sleep(dbWaitInterval)
	}

	return fmt.Errorf("database not ready after %d attempts: %w", dbWaitAttempts, lastErr)
}

func pingDatabase(dbURL string) error {
	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.Ping()
}
