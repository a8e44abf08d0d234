package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sproutcare/engagement-engine/internal/domain"
	"github.com/sproutcare/engagement-engine/internal/engine"
)

// EngineService is the engine surface the HTTP layer depends on
type EngineService interface {
	ProcessEvent(ctx context.Context, evt domain.ActivityEvent) (*engine.Result, error)
	GetState(ctx context.Context, userID string) (*domain.UserGamificationState, error)
	GetRecentTransactions(ctx context.Context, userID string, limit int) ([]domain.PointsTransaction, error)
	ClaimReward(ctx context.Context, userID, rewardID string) (*domain.UserGamificationState, error)
}

// ActivityEventRequest is the expected body of the event ingest endpoint
type ActivityEventRequest struct {
	UserID    string    `json:"user_id" validate:"required,max=64"`
	Type      string    `json:"type" validate:"eventtype"`
	Action    string    `json:"action" validate:"max=32"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  struct {
		WithPhoto bool   `json:"with_photo"`
		Quality   string `json:"quality" validate:"max=16"`
		Weather   string `json:"weather" validate:"max=16"`
		Notes     string `json:"notes" validate:"max=2000"`
	} `json:"metadata"`
}

// ActivityEventResponse summarizes what the event changed
type ActivityEventResponse struct {
	Message              string                     `json:"message"`
	PointsAwarded        int                        `json:"points_awarded"`
	TotalPoints          int                        `json:"total_points"`
	Level                int                        `json:"level"`
	XPToNextLevel        int                        `json:"xp_to_next_level"`
	Transactions         []domain.PointsTransaction `json:"transactions"`
	UnlockedAchievements []domain.Achievement       `json:"unlocked_achievements,omitempty"`
	CompletedChallenges  []domain.Challenge         `json:"completed_challenges,omitempty"`
}

// HandleActivityEvent ingests one activity event
func HandleActivityEvent(svc EngineService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ActivityEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
			return
		}

		if err := GetValidator().ValidateStruct(req); err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]interface{}{
				"error":  ErrMsgInvalidRequestSummary,
				"fields": FormatValidationError(err),
			})
			return
		}

		evt := domain.ActivityEvent{
			UserID:    req.UserID,
			Type:      domain.EventType(req.Type),
			Action:    req.Action,
			Timestamp: req.Timestamp,
			Metadata: domain.ActivityMetadata{
				WithPhoto: req.Metadata.WithPhoto,
				Quality:   req.Metadata.Quality,
				Weather:   req.Metadata.Weather,
				Notes:     req.Metadata.Notes,
			},
		}

		result, err := svc.ProcessEvent(r.Context(), evt)
		if err != nil {
			status, message := mapServiceErrorToUserMessage(err)
			respondError(w, status, message)
			return
		}

		respondJSON(w, http.StatusOK, ActivityEventResponse{
			Message:              MsgEventAcceptedSuccess,
			PointsAwarded:        result.PointsAwarded,
			TotalPoints:          result.State.TotalPoints,
			Level:                result.State.Level,
			XPToNextLevel:        result.State.XPToNextLevel,
			Transactions:         result.Transactions,
			UnlockedAchievements: result.UnlockedAchievements,
			CompletedChallenges:  result.CompletedChallenges,
		})
	}
}
