package event

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/sproutcare/engagement-engine/internal/domain"
)

// Type represents the type of an event
type Type string

// Event represents a generic domain event emitted by the engine
type Event struct {
	Version string      `json:"version"` // Event schema version (e.g., "1.0")
	Type    Type        `json:"type"`
	Payload interface{} `json:"payload"`
}

// Typed event payloads for type safety

// PointsAwardedPayloadV1 is the typed payload for points awarded events
type PointsAwardedPayloadV1 struct {
	UserID       string                     `json:"user_id"`
	Amount       int                        `json:"amount"`
	TotalPoints  int                        `json:"total_points"`
	Level        int                        `json:"level"`
	Transactions []domain.PointsTransaction `json:"transactions"`
}

// AchievementUnlockedPayloadV1 is the typed payload for achievement unlock events
type AchievementUnlockedPayloadV1 struct {
	UserID        string `json:"user_id"`
	AchievementID string `json:"achievement_id"`
	Title         string `json:"title"`
	Points        int    `json:"points"`
}

// StreakMilestonePayloadV1 is the typed payload for streak milestone events
type StreakMilestonePayloadV1 struct {
	UserID      string              `json:"user_id"`
	Activity    domain.ActivityKind `json:"activity"`
	Count       int                 `json:"count"`
	GrantPoints int                 `json:"grant_points,omitempty"`
}

// StreakBrokenPayloadV1 is the typed payload for streak broken events
type StreakBrokenPayloadV1 struct {
	UserID   string              `json:"user_id"`
	Activity domain.ActivityKind `json:"activity"`
	Count    int                 `json:"count"` // length of the streak that broke
}

// ChallengeCompletedPayloadV1 is the typed payload for challenge completion events
type ChallengeCompletedPayloadV1 struct {
	UserID       string `json:"user_id"`
	ChallengeID  string `json:"challenge_id"`
	Title        string `json:"title"`
	RewardPoints int    `json:"reward_points"`
}

// ChallengeExpiredPayloadV1 is the typed payload for challenge expiry events
type ChallengeExpiredPayloadV1 struct {
	UserID      string `json:"user_id"`
	ChallengeID string `json:"challenge_id"`
	Progress    int    `json:"progress"`
	MaxProgress int    `json:"max_progress"`
}

// RewardClaimedPayloadV1 is the typed payload for reward claim events
type RewardClaimedPayloadV1 struct {
	UserID      string `json:"user_id"`
	RewardID    string `json:"reward_id"`
	CostPoints  int    `json:"cost_points,omitempty"`
	GrantPoints int    `json:"grant_points,omitempty"`
}

// DailyResetCompletePayloadV1 is the typed payload for daily reset complete events
type DailyResetCompletePayloadV1 struct {
	ResetTime         time.Time `json:"reset_time"`
	UsersSwept        int       `json:"users_swept"`
	UsersFailed       int       `json:"users_failed"`
	ChallengesExpired int       `json:"challenges_expired"`
	StreaksBroken     int       `json:"streaks_broken"`
}

// UserInactivePayloadV1 is the typed payload for inactivity scan events
type UserInactivePayloadV1 struct {
	UserID      string    `json:"user_id"`
	LastEventAt time.Time `json:"last_event_at"`
}

// StateSnapshotPayloadV1 is the typed payload for state snapshot events
type StateSnapshotPayloadV1 struct {
	UserID      string    `json:"user_id"`
	TotalPoints int       `json:"total_points"`
	Level       int       `json:"level"`
	FlushedAt   time.Time `json:"flushed_at"`
}

// Type-safe event constructors

// NewPointsAwardedEvent creates a new points awarded event
func NewPointsAwardedEvent(userID string, amount int, state *domain.UserGamificationState, transactions []domain.PointsTransaction) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(domain.EventTypePointsAwarded),
		Payload: PointsAwardedPayloadV1{
			UserID:       userID,
			Amount:       amount,
			TotalPoints:  state.TotalPoints,
			Level:        state.Level,
			Transactions: transactions,
		},
	}
}

// NewAchievementUnlockedEvent creates a new achievement unlocked event
func NewAchievementUnlockedEvent(userID string, a domain.Achievement) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(domain.EventTypeAchievementUnlocked),
		Payload: AchievementUnlockedPayloadV1{
			UserID:        userID,
			AchievementID: a.ID,
			Title:         a.Title,
			Points:        a.Points,
		},
	}
}

// NewStreakMilestoneEvent creates a new streak milestone event
func NewStreakMilestoneEvent(userID string, activity domain.ActivityKind, count, grantPoints int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(domain.EventTypeStreakMilestone),
		Payload: StreakMilestonePayloadV1{
			UserID:      userID,
			Activity:    activity,
			Count:       count,
			GrantPoints: grantPoints,
		},
	}
}

// NewStreakBrokenEvent creates a new streak broken event
func NewStreakBrokenEvent(userID string, activity domain.ActivityKind, count int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(domain.EventTypeStreakBroken),
		Payload: StreakBrokenPayloadV1{
			UserID:   userID,
			Activity: activity,
			Count:    count,
		},
	}
}

// NewChallengeCompletedEvent creates a new challenge completed event
func NewChallengeCompletedEvent(userID string, c domain.Challenge) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(domain.EventTypeChallengeCompleted),
		Payload: ChallengeCompletedPayloadV1{
			UserID:       userID,
			ChallengeID:  c.ID,
			Title:        c.Title,
			RewardPoints: c.RewardPoints,
		},
	}
}

// NewChallengeExpiredEvent creates a new challenge expired event
func NewChallengeExpiredEvent(userID string, c domain.Challenge) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(domain.EventTypeChallengeExpired),
		Payload: ChallengeExpiredPayloadV1{
			UserID:      userID,
			ChallengeID: c.ID,
			Progress:    c.Progress,
			MaxProgress: c.MaxProgress,
		},
	}
}

// NewRewardClaimedEvent creates a new reward claimed event
func NewRewardClaimedEvent(userID string, r domain.Reward) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(domain.EventTypeRewardClaimed),
		Payload: RewardClaimedPayloadV1{
			UserID:      userID,
			RewardID:    r.ID,
			CostPoints:  r.CostPoints,
			GrantPoints: r.GrantPoints,
		},
	}
}

// NewDailyResetCompleteEvent creates a new daily reset complete event
func NewDailyResetCompleteEvent(resetTime time.Time, swept, failed, expired, broken int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(domain.EventTypeDailyResetComplete),
		Payload: DailyResetCompletePayloadV1{
			ResetTime:         resetTime,
			UsersSwept:        swept,
			UsersFailed:       failed,
			ChallengesExpired: expired,
			StreaksBroken:     broken,
		},
	}
}

// NewUserInactiveEvent creates a new user inactive event
func NewUserInactiveEvent(userID string, lastEventAt time.Time) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(domain.EventTypeUserInactive),
		Payload: UserInactivePayloadV1{
			UserID:      userID,
			LastEventAt: lastEventAt,
		},
	}
}

// NewStateSnapshotEvent creates a new state snapshot event
func NewStateSnapshotEvent(state *domain.UserGamificationState, flushedAt time.Time) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(domain.EventTypeStateSnapshot),
		Payload: StateSnapshotPayloadV1{
			UserID:      state.UserID,
			TotalPoints: state.TotalPoints,
			Level:       state.Level,
			FlushedAt:   flushedAt,
		},
	}
}

// DecodePayload decodes an event payload into T via type assertion then JSON fallback.
// Payloads published through the in-process MemoryBus are already the right struct;
// payloads replayed from a serialized source take the JSON round-trip.
func DecodePayload[T any](input interface{}) (T, error) {
	if v, ok := input.(T); ok {
		return v, nil
	}
	var result T
	data, err := json.Marshal(input)
	if err != nil {
		return result, err
	}
	return result, json.Unmarshal(data, &result)
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers synchronously.
// Handler errors are collected; one failing handler does not stop the rest.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
