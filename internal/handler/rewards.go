package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ClaimRewardResponse reports the state after a claim
type ClaimRewardResponse struct {
	Message     string `json:"message"`
	TotalPoints int    `json:"total_points"`
	Level       int    `json:"level"`
}

// HandleClaimReward claims a catalog reward for the user
func HandleClaimReward(svc EngineService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		rewardID := chi.URLParam(r, "rewardID")
		if userID == "" || rewardID == "" {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequestSummary)
			return
		}

		state, err := svc.ClaimReward(r.Context(), userID, rewardID)
		if err != nil {
			status, message := mapServiceErrorToUserMessage(err)
			respondError(w, status, message)
			return
		}

		respondJSON(w, http.StatusOK, ClaimRewardResponse{
			Message:     MsgRewardClaimedSuccess,
			TotalPoints: state.TotalPoints,
			Level:       state.Level,
		})
	}
}
