package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sproutcare/engagement-engine/internal/domain"
)

type SeedCommand struct{}

func (c *SeedCommand) Name() string {
	return "seed"
}

func (c *SeedCommand) Description() string {
	return "Insert demo user states for local development"
}

func (c *SeedCommand) Run(args []string) error {
	PrintHeader("Seeding demo users...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := pgx.Connect(ctx, databaseURL())
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(ctx)

	demoUsers := []string{"demo-parent-1", "demo-parent-2", "demo-parent-3"}

	for _, userID := range demoUsers {
		state := domain.NewUserGamificationState(userID)

		payload, err := json.Marshal(state)
		if err != nil {
			return fmt.Errorf("marshal state for %s: %w", userID, err)
		}

		_, err = conn.Exec(ctx, `
			INSERT INTO gamification_states (user_id, state, updated_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (user_id) DO NOTHING`,
			userID, payload)
		if err != nil {
			return fmt.Errorf("insert state for %s: %w", userID, err)
		}

		PrintInfo("Seeded %s", userID)
	}

	PrintSuccess("Seed complete")
	return nil
}
