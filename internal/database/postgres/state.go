// Package postgres implements the storage interfaces over pgx.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sproutcare/engagement-engine/internal/domain"
	"github.com/sproutcare/engagement-engine/internal/repository"
)

type stateRepository struct {
	db *pgxpool.Pool
}

// NewStateRepository creates a new PostgreSQL state repository
func NewStateRepository(db *pgxpool.Pool) repository.StateRepository {
	return &stateRepository{db: db}
}

// GetState loads a user's state snapshot
func (r *stateRepository) GetState(ctx context.Context, userID string) (*domain.UserGamificationState, error) {
	query := `
		SELECT state
		FROM gamification_states
		WHERE user_id = $1
	`

	var stateJSON []byte
	err := r.db.QueryRow(ctx, query, userID).Scan(&stateJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %q: %w", userID, domain.ErrUserNotFound)
	}
	if err != nil {
		return nil, err
	}

	state := domain.NewUserGamificationState(userID)
	if err := json.Unmarshal(stateJSON, state); err != nil {
		return nil, err
	}
	return state, nil
}

// UpsertState writes a user's state snapshot
func (r *stateRepository) UpsertState(ctx context.Context, state *domain.UserGamificationState) error {
	query := `
		INSERT INTO gamification_states (user_id, state, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET state = EXCLUDED.state, updated_at = NOW()
	`

	stateJSON, err := json.Marshal(state)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, query, state.UserID, stateJSON)
	return err
}

// ListUserIDs returns every user with a stored state
func (r *stateRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	query := `SELECT user_id FROM gamification_states`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// AppendTransactions appends committed transactions to the audit trail
func (r *stateRepository) AppendTransactions(ctx context.Context, userID string, txs []domain.PointsTransaction) error {
	if len(txs) == 0 {
		return nil
	}

	query := `
		INSERT INTO points_transactions (id, user_id, activity_type, points, description, kind, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`

	batch := &pgx.Batch{}
	for _, tx := range txs {
		batch.Queue(query, tx.ID, userID, tx.ActivityType, tx.Points, tx.Description, string(tx.Kind), tx.Timestamp)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for range txs {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// GetRecentTransactions returns the newest audit entries first
func (r *stateRepository) GetRecentTransactions(ctx context.Context, userID string, limit int) ([]domain.PointsTransaction, error) {
	query := `
		SELECT id, activity_type, points, description, kind, created_at
		FROM points_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []domain.PointsTransaction
	for rows.Next() {
		var tx domain.PointsTransaction
		var kind string
		if err := rows.Scan(&tx.ID, &tx.ActivityType, &tx.Points, &tx.Description, &kind, &tx.Timestamp); err != nil {
			return nil, err
		}
		tx.Kind = domain.ActivityKind(kind)
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}
