// Package engine orchestrates all gamification mutations. Every state
// change for a user runs under that user's named lock, so concurrent
// events, reward claims and sweeps serialize per user while distinct
// users proceed in parallel.
package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/sproutcare/engagement-engine/internal/achievement"
	"github.com/sproutcare/engagement-engine/internal/bonus"
	"github.com/sproutcare/engagement-engine/internal/challenge"
	"github.com/sproutcare/engagement-engine/internal/concurrency"
	"github.com/sproutcare/engagement-engine/internal/domain"
	"github.com/sproutcare/engagement-engine/internal/event"
	"github.com/sproutcare/engagement-engine/internal/ledger"
	"github.com/sproutcare/engagement-engine/internal/logger"
	"github.com/sproutcare/engagement-engine/internal/metrics"
	"github.com/sproutcare/engagement-engine/internal/repository"
	"github.com/sproutcare/engagement-engine/internal/streak"
)

// Publisher is the outbound event boundary. The resilient publisher
// satisfies it in production; tests substitute a capture.
type Publisher interface {
	PublishWithRetry(ctx context.Context, evt event.Event)
}

// Result reports everything one event changed
type Result struct {
	State                *domain.UserGamificationState
	Transactions         []domain.PointsTransaction
	PointsAwarded        int
	UnlockedAchievements []domain.Achievement
	CompletedChallenges  []domain.Challenge
	StreakMilestone      *streak.Milestone
}

// Engine applies activity events and scheduled sweeps to user state.
// The LRU cache holds hot states; the repository is the durable store.
// On flush failure the in-memory state stays authoritative and the
// flush is retried on the next snapshot cycle.
type Engine struct {
	repo          repository.StateRepository
	ledger        *ledger.Service
	challenges    *challenge.Tracker
	achievements  *achievement.Evaluator
	publisher     Publisher
	locks         *concurrency.LockManager
	cache         *lru.Cache[string, *domain.UserGamificationState]
	rewardCatalog []domain.Reward
	loc           *time.Location
	now           func() time.Time
	stopped       atomic.Bool

	// dirty pins states whose last store write failed. The pin survives
	// cache eviction, so committed points outlive a store outage; the
	// flush cycle drains it once the store recovers.
	dirtyMu sync.Mutex
	dirty   map[string]*domain.UserGamificationState
}

// Option configures the Engine
type Option func(*Engine)

// WithClock overrides the time source for deterministic tests
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLocation sets the timezone used for challenge expiry windows
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) { e.loc = loc }
}

// WithLedger overrides the ledger service
func WithLedger(svc *ledger.Service) Option {
	return func(e *Engine) { e.ledger = svc }
}

// WithChallengeTracker overrides the challenge tracker
func WithChallengeTracker(t *challenge.Tracker) Option {
	return func(e *Engine) { e.challenges = t }
}

// WithAchievementEvaluator overrides the achievement evaluator
func WithAchievementEvaluator(ev *achievement.Evaluator) Option {
	return func(e *Engine) { e.achievements = ev }
}

// WithRewardCatalog overrides the reward catalog seeded per user
func WithRewardCatalog(catalog []domain.Reward) Option {
	return func(e *Engine) { e.rewardCatalog = catalog }
}

// NewEngine creates an engine over the given store and publisher
func NewEngine(repo repository.StateRepository, publisher Publisher, cacheSize int, opts ...Option) (*Engine, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultStateCacheSize
	}
	cache, err := lru.New[string, *domain.UserGamificationState](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating state cache: %w", err)
	}

	ledgerSvc := ledger.NewService()
	e := &Engine{
		repo:          repo,
		ledger:        ledgerSvc,
		challenges:    challenge.NewTracker(),
		publisher:     publisher,
		locks:         concurrency.NewLockManager(),
		cache:         cache,
		rewardCatalog: DefaultRewardCatalog(),
		loc:           time.UTC,
		now:           time.Now,
		dirty:         make(map[string]*domain.UserGamificationState),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.achievements == nil {
		e.achievements = achievement.NewEvaluator(achievement.Catalog(), e.ledger)
	}
	return e, nil
}

// ProcessEvent runs the full accounting pipeline for one activity event:
// bonuses, ledger commit, streak update, challenge progress, achievement
// evaluation, persistence and event publication. Malformed events are
// normalized with safe defaults rather than rejected; only a missing
// user ID is fatal.
func (e *Engine) ProcessEvent(ctx context.Context, evt domain.ActivityEvent) (*Result, error) {
	if e.stopped.Load() {
		return nil, domain.ErrEngineStopped
	}
	if evt.UserID == "" {
		return nil, fmt.Errorf("missing user id: %w", domain.ErrInvalidInput)
	}

	log := logger.FromContext(ctx)
	if evt.Timestamp.IsZero() {
		evt.Timestamp = e.now()
		log.Warn(LogMsgEventMissingTimestamp, LogFieldUserID, evt.UserID)
	}
	if evt.Type == "" {
		evt.Type = domain.EventTypeActivityLog
		log.Warn(LogMsgEventMissingType, LogFieldUserID, evt.UserID)
	}
	if _, known := ledger.BasePointsFor(evt.Kind()); evt.Type == domain.EventTypeActivityLog && !known {
		log.Warn(LogMsgEventUnknownAction, LogFieldUserID, evt.UserID, LogFieldAction, evt.Action)
	}

	var result *Result
	err := e.locks.WithLock(concurrency.UserLockKey(evt.UserID), func() error {
		state := e.loadOrCreate(ctx, evt.UserID)
		e.challenges.Seed(state, evt.Timestamp, e.loc)
		e.seedRewards(state)

		var events []event.Event

		txs, err := e.ledger.ApplyEvent(state, evt, bonus.Compute(evt))
		if err != nil {
			return err
		}

		var milestone *streak.Milestone
		if evt.QualifiesForStreak() {
			res := streak.Update(state, evt.Kind(), evt.Timestamp)
			if res.Advanced && res.Milestone != nil {
				milestone = res.Milestone
				if milestone.GrantPoints > 0 {
					tx, err := e.ledger.Grant(state, StreakTransactionType, milestone.GrantPoints,
						fmt.Sprintf("%d-day %s streak", milestone.Count, evt.Kind()), evt.Timestamp)
					if err != nil {
						return err
					}
					txs = append(txs, tx)
				}
				events = append(events, event.NewStreakMilestoneEvent(evt.UserID, evt.Kind(), milestone.Count, milestone.GrantPoints))
				metrics.StreakMilestones.WithLabelValues(string(evt.Kind())).Inc()
			}
		}

		completed := e.challenges.RecordActivity(state, evt.Kind(), evt.Timestamp)
		for _, c := range completed {
			if c.RewardPoints > 0 {
				tx, err := e.ledger.Grant(state, challenge.TransactionType, c.RewardPoints, c.Title, evt.Timestamp)
				if err != nil {
					return err
				}
				txs = append(txs, tx)
			}
			events = append(events, event.NewChallengeCompletedEvent(evt.UserID, c))
			metrics.ChallengesCompleted.WithLabelValues(string(c.Type)).Inc()
		}

		unlocked, achTxs, err := e.achievements.Evaluate(state, evt.Timestamp)
		if err != nil {
			return err
		}
		txs = append(txs, achTxs...)
		for _, a := range unlocked {
			events = append(events, event.NewAchievementUnlockedEvent(evt.UserID, a))
			metrics.AchievementsUnlocked.Inc()
		}

		state.LastEventAt = evt.Timestamp
		state.UpdatedAt = e.now()

		e.persist(ctx, state, txs)

		awarded := 0
		for _, tx := range txs {
			awarded += tx.Points
		}
		metrics.PointsAwarded.WithLabelValues(string(evt.Kind())).Add(float64(awarded))

		// points.awarded goes out first so consumers see the balance
		// change before its downstream effects
		e.publisher.PublishWithRetry(ctx, event.NewPointsAwardedEvent(evt.UserID, awarded, state, txs))
		for _, ev := range events {
			e.publisher.PublishWithRetry(ctx, ev)
		}

		metrics.ActivityEventsProcessed.WithLabelValues(string(evt.Type)).Inc()
		log.Info(LogMsgEventProcessed,
			LogFieldUserID, evt.UserID,
			LogFieldEventType, evt.Type,
			LogFieldPoints, awarded,
			LogFieldLevel, state.Level)

		result = &Result{
			State:                state.Clone(),
			Transactions:         txs,
			PointsAwarded:        awarded,
			UnlockedAchievements: unlocked,
			CompletedChallenges:  completed,
			StreakMilestone:      milestone,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetState returns a snapshot of the user's current state, preferring
// the hot cache. The read runs under the user's lock and the caller
// gets a copy, so encoding it never races an in-flight mutation.
func (e *Engine) GetState(ctx context.Context, userID string) (*domain.UserGamificationState, error) {
	if userID == "" {
		return nil, fmt.Errorf("missing user id: %w", domain.ErrInvalidInput)
	}

	var snapshot *domain.UserGamificationState
	err := e.locks.WithLock(concurrency.UserLockKey(userID), func() error {
		if state, ok := e.lookupLive(userID); ok {
			snapshot = state.Clone()
			return nil
		}
		state, err := e.repo.GetState(ctx, userID)
		if err != nil {
			return err
		}
		e.cache.Add(userID, state)
		snapshot = state.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// GetRecentTransactions returns the newest entries of the user's audit trail
func (e *Engine) GetRecentTransactions(ctx context.Context, userID string, limit int) ([]domain.PointsTransaction, error) {
	return e.repo.GetRecentTransactions(ctx, userID, limit)
}

// ClaimReward claims a catalog reward for the user. Claims are
// idempotent: a second claim of the same reward returns the state
// unchanged with no new transaction or event.
func (e *Engine) ClaimReward(ctx context.Context, userID, rewardID string) (*domain.UserGamificationState, error) {
	if e.stopped.Load() {
		return nil, domain.ErrEngineStopped
	}
	if userID == "" || rewardID == "" {
		return nil, fmt.Errorf("missing user or reward id: %w", domain.ErrInvalidInput)
	}

	log := logger.FromContext(ctx)
	var snapshot *domain.UserGamificationState
	err := e.locks.WithLock(concurrency.UserLockKey(userID), func() error {
		state := e.loadOrCreate(ctx, userID)
		defer func() { snapshot = state.Clone() }()
		e.seedRewards(state)

		idx := -1
		for i := range state.Rewards {
			if state.Rewards[i].ID == rewardID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("reward %q: %w", rewardID, domain.ErrRewardNotFound)
		}

		r := &state.Rewards[idx]
		if r.Claimed {
			log.Info(LogMsgRewardAlreadyClaimed, LogFieldUserID, userID, LogFieldRewardID, rewardID)
			return nil
		}

		now := e.now()
		var txs []domain.PointsTransaction
		if r.CostPoints > 0 {
			tx, err := e.ledger.Debit(state, RewardCostTransactionType, r.CostPoints, r.Title, now)
			if err != nil {
				return err
			}
			txs = append(txs, tx)
		}
		if r.GrantPoints > 0 {
			tx, err := e.ledger.Grant(state, RewardGiftTransactionType, r.GrantPoints, r.Title, now)
			if err != nil {
				return err
			}
			txs = append(txs, tx)
		}

		r.Claimed = true
		claimedAt := now
		r.ClaimedAt = &claimedAt
		state.UpdatedAt = now

		e.persist(ctx, state, txs)

		e.publisher.PublishWithRetry(ctx, event.NewRewardClaimedEvent(userID, *r))
		metrics.RewardsClaimed.Inc()
		log.Info(LogMsgRewardClaimed, LogFieldUserID, userID, LogFieldRewardID, rewardID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// FlushStates writes every cached or dirty-pinned state to the store
// and publishes a snapshot event per flushed user. Runs on the snapshot
// schedule and at shutdown.
func (e *Engine) FlushStates(ctx context.Context) int {
	log := logger.FromContext(ctx)
	flushed := 0

	seen := make(map[string]bool)
	userIDs := e.cache.Keys()
	for _, id := range userIDs {
		seen[id] = true
	}
	for _, id := range e.dirtyUserIDs() {
		if !seen[id] {
			userIDs = append(userIDs, id)
		}
	}

	for _, userID := range userIDs {
		var snapshot event.Event
		err := e.locks.WithLock(concurrency.UserLockKey(userID), func() error {
			state, ok := e.lookupLive(userID)
			if !ok {
				return nil
			}
			if err := e.repo.UpsertState(ctx, state); err != nil {
				return err
			}
			e.clearDirty(userID)
			snapshot = event.NewStateSnapshotEvent(state, e.now())
			return nil
		})
		if err != nil {
			metrics.StateFlushFailures.Inc()
			log.Error(LogMsgStateFlushFailed, LogFieldUserID, userID, LogFieldError, err)
			continue
		}
		if snapshot.Type == "" {
			continue
		}
		e.publisher.PublishWithRetry(ctx, snapshot)
		flushed++
	}

	log.Info(LogMsgSnapshotFlush, LogFieldFlushed, flushed)
	return flushed
}

// ScanInactivity publishes a user.inactive event for every known user
// whose last qualifying event is older than the threshold
func (e *Engine) ScanInactivity(ctx context.Context, threshold time.Duration) (int, error) {
	log := logger.FromContext(ctx)
	now := e.now()
	inactive := 0

	userIDs, err := e.knownUserIDs(ctx)
	if err != nil {
		return 0, err
	}

	for _, userID := range userIDs {
		state, err := e.GetState(ctx, userID)
		if err != nil {
			continue
		}
		if state.LastEventAt.IsZero() {
			continue
		}
		if now.Sub(state.LastEventAt) > threshold {
			e.publisher.PublishWithRetry(ctx, event.NewUserInactiveEvent(userID, state.LastEventAt))
			log.Info(LogMsgInactiveUserFound, LogFieldUserID, userID)
			inactive++
		}
	}

	log.Info(LogMsgInactivityScanDone, LogFieldInactive, inactive, LogFieldThreshold, threshold)
	return inactive, nil
}

// Shutdown stops accepting mutations and flushes cached state
func (e *Engine) Shutdown(ctx context.Context) error {
	e.stopped.Store(true)
	logger.FromContext(ctx).Info(LogMsgEngineShuttingDown)
	e.FlushStates(ctx)
	return nil
}

// loadOrCreate resolves the user's state from cache, then the dirty
// pin, then the store, and finally creates a fresh one. Store errors
// degrade to a fresh state so a database blip never drops an inbound
// event; the flush cycle reconciles once the store recovers.
func (e *Engine) loadOrCreate(ctx context.Context, userID string) *domain.UserGamificationState {
	if state, ok := e.lookupLive(userID); ok {
		return state
	}
	state, err := e.repo.GetState(ctx, userID)
	if err != nil || state == nil {
		state = domain.NewUserGamificationState(userID)
	}
	e.cache.Add(userID, state)
	return state
}

// lookupLive finds an in-memory state the engine already owns. The
// dirty pin is checked after the cache so an unflushed state evicted
// by the LRU is still found, not reloaded stale from the store.
func (e *Engine) lookupLive(userID string) (*domain.UserGamificationState, bool) {
	if state, ok := e.cache.Get(userID); ok {
		return state, true
	}
	e.dirtyMu.Lock()
	state, ok := e.dirty[userID]
	e.dirtyMu.Unlock()
	if ok {
		e.cache.Add(userID, state)
	}
	return state, ok
}

func (e *Engine) markDirty(state *domain.UserGamificationState) {
	e.dirtyMu.Lock()
	e.dirty[state.UserID] = state
	e.dirtyMu.Unlock()
}

func (e *Engine) clearDirty(userID string) {
	e.dirtyMu.Lock()
	delete(e.dirty, userID)
	e.dirtyMu.Unlock()
}

func (e *Engine) dirtyUserIDs() []string {
	e.dirtyMu.Lock()
	defer e.dirtyMu.Unlock()
	ids := make([]string, 0, len(e.dirty))
	for id := range e.dirty {
		ids = append(ids, id)
	}
	return ids
}

// persist flushes the state and appends new transactions. Failures are
// logged and counted but not returned: the in-memory state already
// committed and stays authoritative, pinned dirty until a later flush
// lands it.
func (e *Engine) persist(ctx context.Context, state *domain.UserGamificationState, txs []domain.PointsTransaction) {
	log := logger.FromContext(ctx)

	if err := e.repo.UpsertState(ctx, state); err != nil {
		e.markDirty(state)
		metrics.StateFlushFailures.Inc()
		log.Error(LogMsgStateFlushFailed, LogFieldUserID, state.UserID, LogFieldError, err)
	} else {
		e.clearDirty(state.UserID)
	}
	if len(txs) > 0 {
		if err := e.repo.AppendTransactions(ctx, state.UserID, txs); err != nil {
			log.Error(LogMsgTransactionLogFailed, LogFieldUserID, state.UserID, LogFieldError, err)
		}
	}
	e.cache.Add(state.UserID, state)
}

// knownUserIDs merges the store's users with in-memory users (cached or
// dirty-pinned) that have not flushed yet
func (e *Engine) knownUserIDs(ctx context.Context) ([]string, error) {
	ids, err := e.repo.ListUserIDs(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		seen[id] = true
	}
	for _, id := range append(e.cache.Keys(), e.dirtyUserIDs()...) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}
