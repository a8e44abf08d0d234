package engine

import (
	"context"
	"time"

	"github.com/sproutcare/engagement-engine/internal/concurrency"
	"github.com/sproutcare/engagement-engine/internal/event"
	"github.com/sproutcare/engagement-engine/internal/logger"
	"github.com/sproutcare/engagement-engine/internal/metrics"
	"github.com/sproutcare/engagement-engine/internal/streak"
)

// SweepSummary reports the outcome of one reset sweep
type SweepSummary struct {
	ResetTime         time.Time
	UsersSwept        int
	UsersFailed       int
	ChallengesExpired int
	StreaksBroken     int
}

// ResetSweep runs the scheduled maintenance pass over every known user:
// expired challenges are dropped, stale streaks are broken, and the next
// challenge rotation is seeded. One user's failure never blocks the
// rest. A daily_reset.complete event summarizes the sweep.
func (e *Engine) ResetSweep(ctx context.Context, now time.Time) (SweepSummary, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgSweepStarting)

	summary := SweepSummary{ResetTime: now}

	userIDs, err := e.knownUserIDs(ctx)
	if err != nil {
		return summary, err
	}

	for _, userID := range userIDs {
		select {
		case <-ctx.Done():
			log.Warn(LogMsgSweepCancelled, LogFieldSwept, summary.UsersSwept)
			return summary, ctx.Err()
		default:
		}

		expired, broken, err := e.sweepUser(ctx, userID, now)
		if err != nil {
			summary.UsersFailed++
			metrics.ResetSweepUserFailures.Inc()
			log.Error(LogMsgSweepUserFailed, LogFieldUserID, userID, LogFieldError, err)
			continue
		}
		summary.UsersSwept++
		summary.ChallengesExpired += expired
		summary.StreaksBroken += broken
	}

	metrics.ResetSweeps.Inc()
	e.publisher.PublishWithRetry(ctx, event.NewDailyResetCompleteEvent(
		now, summary.UsersSwept, summary.UsersFailed, summary.ChallengesExpired, summary.StreaksBroken))

	log.Info(LogMsgSweepComplete,
		LogFieldSwept, summary.UsersSwept,
		LogFieldFailed, summary.UsersFailed,
		LogFieldExpired, summary.ChallengesExpired,
		LogFieldBroken, summary.StreaksBroken)

	return summary, nil
}

// sweepUser applies the reset pass to one user under their lock
func (e *Engine) sweepUser(ctx context.Context, userID string, now time.Time) (expired, broken int, err error) {
	err = e.locks.WithLock(concurrency.UserLockKey(userID), func() error {
		state, ok := e.lookupLive(userID)
		if !ok {
			var loadErr error
			state, loadErr = e.repo.GetState(ctx, userID)
			if loadErr != nil {
				return loadErr
			}
		}

		for _, c := range e.challenges.ExpireDue(state, now) {
			e.publisher.PublishWithRetry(ctx, event.NewChallengeExpiredEvent(userID, c))
			expired++
		}

		for kind, st := range state.Streaks {
			if length := streak.Lapse(st, now); length > 0 {
				e.publisher.PublishWithRetry(ctx, event.NewStreakBrokenEvent(userID, kind, length))
				broken++
			}
		}

		e.challenges.Seed(state, now, e.loc)
		state.UpdatedAt = e.now()
		e.persist(ctx, state, nil)
		return nil
	})
	return expired, broken, err
}
