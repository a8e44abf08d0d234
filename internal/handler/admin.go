package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sproutcare/engagement-engine/internal/engine"
	"github.com/sproutcare/engagement-engine/internal/eventlog"
)

// ResetTrigger runs the maintenance sweep on demand
type ResetTrigger interface {
	TriggerNow(ctx context.Context) (engine.SweepSummary, error)
}

// ResetSweepResponse reports a manually triggered sweep
type ResetSweepResponse struct {
	Message           string `json:"message"`
	UsersSwept        int    `json:"users_swept"`
	UsersFailed       int    `json:"users_failed"`
	ChallengesExpired int    `json:"challenges_expired"`
	StreaksBroken     int    `json:"streaks_broken"`
}

// HandleAdminTriggerReset runs the reset sweep immediately
func HandleAdminTriggerReset(trigger ResetTrigger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := trigger.TriggerNow(r.Context())
		if err != nil {
			respondError(w, http.StatusInternalServerError, ErrMsgTriggerResetFailed)
			return
		}

		respondJSON(w, http.StatusOK, ResetSweepResponse{
			Message:           MsgResetTriggered,
			UsersSwept:        summary.UsersSwept,
			UsersFailed:       summary.UsersFailed,
			ChallengesExpired: summary.ChallengesExpired,
			StreaksBroken:     summary.StreaksBroken,
		})
	}
}

// HandleGetUserEvents returns the logged domain events for a user
func HandleGetUserEvents(svc eventlog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		if userID == "" {
			respondError(w, http.StatusBadRequest, ErrMsgMissingUserID)
			return
		}

		limit := DefaultActivityLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				respondError(w, http.StatusBadRequest, ErrMsgInvalidLimit)
				return
			}
			limit = parsed
		}
		if limit > MaxActivityLimit {
			limit = MaxActivityLimit
		}

		entries, err := svc.GetEventsByUser(r.Context(), userID, limit)
		if err != nil {
			respondError(w, http.StatusInternalServerError, ErrMsgGetUserEventsFailed)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: entries})
	}
}
