package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sproutcare/engagement-engine/internal/domain"
	"github.com/sproutcare/engagement-engine/internal/engine"
)

// MockEngineService is a mock implementation of EngineService
type MockEngineService struct {
	mock.Mock
}

func (m *MockEngineService) ProcessEvent(ctx context.Context, evt domain.ActivityEvent) (*engine.Result, error) {
	args := m.Called(ctx, evt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engine.Result), args.Error(1)
}

func (m *MockEngineService) GetState(ctx context.Context, userID string) (*domain.UserGamificationState, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserGamificationState), args.Error(1)
}

func (m *MockEngineService) GetRecentTransactions(ctx context.Context, userID string, limit int) ([]domain.PointsTransaction, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PointsTransaction), args.Error(1)
}

func (m *MockEngineService) ClaimReward(ctx context.Context, userID, rewardID string) (*domain.UserGamificationState, error) {
	args := m.Called(ctx, userID, rewardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserGamificationState), args.Error(1)
}

// MockResetTrigger is a mock implementation of ResetTrigger
type MockResetTrigger struct {
	mock.Mock
}

func (m *MockResetTrigger) TriggerNow(ctx context.Context) (engine.SweepSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).(engine.SweepSummary), args.Error(1)
}

func testRouter(svc EngineService, trigger ResetTrigger) http.Handler {
	r := chi.NewRouter()
	r.Post("/events", HandleActivityEvent(svc))
	r.Get("/users/{userID}/state", HandleGetState(svc))
	r.Get("/users/{userID}/activity", HandleGetRecentActivity(svc))
	r.Post("/users/{userID}/rewards/{rewardID}/claim", HandleClaimReward(svc))
	if trigger != nil {
		r.Post("/admin/reset", HandleAdminTriggerReset(trigger))
	}
	return r
}

func TestHandleActivityEvent_Success(t *testing.T) {
	svc := new(MockEngineService)
	state := domain.NewUserGamificationState("user-1")
	state.TotalPoints = 15
	state.Level = 1
	svc.On("ProcessEvent", mock.Anything, mock.MatchedBy(func(evt domain.ActivityEvent) bool {
		return evt.UserID == "user-1" && evt.Action == "sleep" && evt.Metadata.WithPhoto
	})).Return(&engine.Result{State: state, PointsAwarded: 15}, nil)

	body := `{
		"user_id": "user-1",
		"type": "activity_log",
		"action": "sleep",
		"timestamp": "2026-03-04T10:00:00Z",
		"metadata": {"with_photo": true}
	}`

	req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(body))
	rec := httptest.NewRecorder()
	testRouter(svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ActivityEventResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, MsgEventAcceptedSuccess, resp.Message)
	assert.Equal(t, 15, resp.PointsAwarded)
	assert.Equal(t, 15, resp.TotalPoints)
	svc.AssertExpectations(t)
}

func TestHandleActivityEvent_InvalidJSON(t *testing.T) {
	svc := new(MockEngineService)

	req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	testRouter(svc, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), ErrMsgInvalidRequest)
}

func TestHandleActivityEvent_ValidationErrors(t *testing.T) {
	svc := new(MockEngineService)

	tests := []struct {
		name string
		body string
	}{
		{"missing user_id", `{"type": "activity_log", "action": "sleep"}`},
		{"bad event type", `{"user_id": "u1", "type": "teleport"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			testRouter(svc, nil).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), ErrMsgInvalidRequestSummary)
		})
	}
	svc.AssertNotCalled(t, "ProcessEvent")
}

func TestHandleActivityEvent_MalformedButAcceptable(t *testing.T) {
	// empty type and action pass validation; the engine normalizes them
	svc := new(MockEngineService)
	state := domain.NewUserGamificationState("user-1")
	state.TotalPoints = 10
	svc.On("ProcessEvent", mock.Anything, mock.Anything).
		Return(&engine.Result{State: state, PointsAwarded: 10}, nil)

	req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(`{"user_id": "user-1"}`))
	rec := httptest.NewRecorder()
	testRouter(svc, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleGetState(t *testing.T) {
	svc := new(MockEngineService)
	state := domain.NewUserGamificationState("user-1")
	state.TotalPoints = 120
	state.Level = 2
	svc.On("GetState", mock.Anything, "user-1").Return(state, nil)

	req := httptest.NewRequest(http.MethodGet, "/users/user-1/state", nil)
	rec := httptest.NewRecorder()
	testRouter(svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_points":120`)
}

func TestHandleGetState_NotFound(t *testing.T) {
	svc := new(MockEngineService)
	svc.On("GetState", mock.Anything, "ghost").Return(nil, domain.ErrUserNotFound)

	req := httptest.NewRequest(http.MethodGet, "/users/ghost/state", nil)
	rec := httptest.NewRecorder()
	testRouter(svc, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), ErrMsgUserNotFoundError)
}

func TestHandleGetRecentActivity(t *testing.T) {
	svc := new(MockEngineService)
	txs := []domain.PointsTransaction{
		{ID: "tx-1", Points: 10, Timestamp: time.Now()},
	}
	svc.On("GetRecentTransactions", mock.Anything, "user-1", DefaultActivityLimit).Return(txs, nil)

	req := httptest.NewRequest(http.MethodGet, "/users/user-1/activity", nil)
	rec := httptest.NewRecorder()
	testRouter(svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tx-1")
}

func TestHandleGetRecentActivity_LimitHandling(t *testing.T) {
	svc := new(MockEngineService)
	svc.On("GetRecentTransactions", mock.Anything, "user-1", 5).
		Return([]domain.PointsTransaction{}, nil)
	svc.On("GetRecentTransactions", mock.Anything, "user-1", MaxActivityLimit).
		Return([]domain.PointsTransaction{}, nil)

	// explicit limit
	req := httptest.NewRequest(http.MethodGet, "/users/user-1/activity?limit=5", nil)
	rec := httptest.NewRecorder()
	router := testRouter(svc, nil)
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// oversized limit clamps to the ceiling
	req = httptest.NewRequest(http.MethodGet, "/users/user-1/activity?limit=5000", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// garbage limit rejected
	req = httptest.NewRequest(http.MethodGet, "/users/user-1/activity?limit=banana", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.AssertExpectations(t)
}

func TestHandleClaimReward(t *testing.T) {
	svc := new(MockEngineService)
	state := domain.NewUserGamificationState("user-1")
	state.TotalPoints = 25
	svc.On("ClaimReward", mock.Anything, "user-1", "welcome_gift").Return(state, nil)

	req := httptest.NewRequest(http.MethodPost, "/users/user-1/rewards/welcome_gift/claim", nil)
	rec := httptest.NewRecorder()
	testRouter(svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), MsgRewardClaimedSuccess)
}

func TestHandleClaimReward_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"unknown reward", domain.ErrRewardNotFound, http.StatusNotFound, ErrMsgRewardNotFoundError},
		{"insufficient points", domain.ErrInsufficientPoints, http.StatusBadRequest, ErrMsgNotEnoughPointsErr},
		{"shutting down", domain.ErrEngineStopped, http.StatusServiceUnavailable, ErrMsgShuttingDownError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockEngineService)
			svc.On("ClaimReward", mock.Anything, "user-1", "r1").Return(nil, tt.err)

			req := httptest.NewRequest(http.MethodPost, "/users/user-1/rewards/r1/claim", nil)
			rec := httptest.NewRecorder()
			testRouter(svc, nil).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestHandleAdminTriggerReset(t *testing.T) {
	trigger := new(MockResetTrigger)
	trigger.On("TriggerNow", mock.Anything).
		Return(engine.SweepSummary{UsersSwept: 7, ChallengesExpired: 3}, nil)

	req := httptest.NewRequest(http.MethodPost, "/admin/reset", nil)
	rec := httptest.NewRecorder()
	testRouter(new(MockEngineService), trigger).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ResetSweepResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 7, resp.UsersSwept)
	assert.Equal(t, 3, resp.ChallengesExpired)
}

func TestHandleHealthz(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	HandleHealthz()(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}
