package repository

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sproutcare/engagement-engine/internal/domain"
)

// MockStateRepository is a mock implementation of StateRepository
type MockStateRepository struct {
	mock.Mock
}

func (m *MockStateRepository) GetState(ctx context.Context, userID string) (*domain.UserGamificationState, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserGamificationState), args.Error(1)
}

func (m *MockStateRepository) UpsertState(ctx context.Context, state *domain.UserGamificationState) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

func (m *MockStateRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockStateRepository) AppendTransactions(ctx context.Context, userID string, txs []domain.PointsTransaction) error {
	args := m.Called(ctx, userID, txs)
	return args.Error(0)
}

func (m *MockStateRepository) GetRecentTransactions(ctx context.Context, userID string, limit int) ([]domain.PointsTransaction, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PointsTransaction), args.Error(1)
}
