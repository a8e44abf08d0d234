package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// DefaultActivityLimit caps the recent-activity page size when the
// client does not ask for one
const DefaultActivityLimit = 20

// MaxActivityLimit is the hard ceiling for the recent-activity page size
const MaxActivityLimit = 100

// HandleGetState returns the user's full gamification state
func HandleGetState(svc EngineService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		if userID == "" {
			respondError(w, http.StatusBadRequest, ErrMsgMissingUserID)
			return
		}

		state, err := svc.GetState(r.Context(), userID)
		if err != nil {
			status, message := mapServiceErrorToUserMessage(err)
			respondError(w, status, message)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: state})
	}
}

// HandleGetRecentActivity returns the newest audit trail entries
func HandleGetRecentActivity(svc EngineService) http.HandlerFunc {
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

		txs, err := svc.GetRecentTransactions(r.Context(), userID, limit)
		if err != nil {
			status, message := mapServiceErrorToUserMessage(err)
			respondError(w, status, message)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: txs})
	}
}
