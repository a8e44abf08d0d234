package repository

import (
	"context"

	"github.com/sproutcare/engagement-engine/internal/domain"
)

type StateRepository interface {
	// State snapshots
	GetState(ctx context.Context, userID string) (*domain.UserGamificationState, error)
	UpsertState(ctx context.Context, state *domain.UserGamificationState) error
	ListUserIDs(ctx context.Context) ([]string, error)

	// Points audit trail
	AppendTransactions(ctx context.Context, userID string, txs []domain.PointsTransaction) error
	GetRecentTransactions(ctx context.Context, userID string, limit int) ([]domain.PointsTransaction, error)
}
