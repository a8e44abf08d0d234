package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sproutcare/engagement-engine/internal/database/postgres"
	"github.com/sproutcare/engagement-engine/internal/eventlog"
	"github.com/sproutcare/engagement-engine/internal/repository"
)

// Repositories holds all repository implementations used by the application.
type Repositories struct {
	State    repository.StateRepository
	EventLog eventlog.Repository
}

// InitializeRepositories creates all repository implementations.
func InitializeRepositories(dbPool *pgxpool.Pool) *Repositories {
	return &Repositories{
		State:    postgres.NewStateRepository(dbPool),
		EventLog: postgres.NewEventLogRepository(dbPool),
	}
}
