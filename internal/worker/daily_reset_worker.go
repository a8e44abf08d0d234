package worker

import (
	"context"
	"sync"
	"time"

	"github.com/sproutcare/engagement-engine/internal/engine"
	"github.com/sproutcare/engagement-engine/internal/logger"
)

// ResetService runs the maintenance sweep the worker schedules
type ResetService interface {
	ResetSweep(ctx context.Context, now time.Time) (engine.SweepSummary, error)
}

// DailyResetWorker fires the reset sweep at local midnight in the
// configured timezone. The sweep itself publishes the completion event,
// so the worker only owns the schedule.
type DailyResetWorker struct {
	service  ResetService
	location *time.Location
	timer    *time.Timer
	shutdown chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
}

// NewDailyResetWorker creates a worker sweeping at midnight in loc
func NewDailyResetWorker(service ResetService, loc *time.Location) *DailyResetWorker {
	if loc == nil {
		loc = time.UTC
	}
	return &DailyResetWorker{
		service:  service,
		location: loc,
		shutdown: make(chan struct{}),
	}
}

// Start schedules the first reset
func (w *DailyResetWorker) Start() {
	w.scheduleNext()
}

// scheduleNext calculates the time until the next local midnight and
// arms the timer. Two-stage scheduling prevents tight reschedule loops
// from early timer triggers: long waits park in standby and wake
// shortly before midnight is due.
func (w *DailyResetWorker) scheduleNext() {
	duration := w.timeUntilNextReset()
	log := logger.FromContext(context.Background())

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}

	if duration > StandbyThreshold {
		waitDuration := duration - StandbyLeadTime
		w.timer = time.AfterFunc(waitDuration, func() {
			w.scheduleNext()
		})
		w.mu.Unlock()

		log.Info(LogMsgDailyResetStandby, "next_check_at", time.Now().In(w.location).Add(waitDuration))
		return
	}

	w.timer = time.AfterFunc(duration, func() {
		select {
		case <-w.shutdown:
			return
		default:
		}

		// An early trigger leaves meaningful time on the clock; a
		// remaining duration near 24h means we fired on time (the next
		// midnight is already a day out).
		rem := w.timeUntilNextReset()
		if rem > JitterTolerance && rem < 23*time.Hour {
			w.scheduleNext()
			return
		}

		w.executeReset()
		w.scheduleNext()
	})
	w.mu.Unlock()

	log.Info(LogMsgDailyResetApproach, "next_reset_at", time.Now().In(w.location).Add(duration))
}

// executeReset performs the sweep in a tracked goroutine
func (w *DailyResetWorker) executeReset() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		ctx := context.Background()
		log := logger.FromContext(ctx)
		log.Info(LogMsgDailyResetStarting)

		summary, err := w.service.ResetSweep(ctx, time.Now().In(w.location))
		if err != nil {
			log.Error(LogMsgDailyResetFailed, "error", err)
			return
		}

		log.Info(LogMsgDailyResetCompleted,
			"users_swept", summary.UsersSwept,
			"users_failed", summary.UsersFailed,
			"challenges_expired", summary.ChallengesExpired,
			"streaks_broken", summary.StreaksBroken)
	}()
}

// TriggerNow runs the sweep immediately, outside the schedule. Used by
// the admin endpoint; the midnight schedule is unaffected.
func (w *DailyResetWorker) TriggerNow(ctx context.Context) (engine.SweepSummary, error) {
	logger.FromContext(ctx).Info(LogMsgDailyResetManualTrigger)
	return w.service.ResetSweep(ctx, time.Now().In(w.location))
}

// Shutdown cancels the pending timer and waits for in-flight sweeps
func (w *DailyResetWorker) Shutdown(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info("Shutting down daily reset worker")

	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info("Daily reset worker shutdown complete")
		return nil
	case <-ctx.Done():
		log.Warn("Daily reset worker shutdown timeout, a sweep may still be running")
		return ctx.Err()
	}
}

// timeUntilNextReset calculates the duration until the next local midnight
func (w *DailyResetWorker) timeUntilNextReset() time.Duration {
	now := time.Now().In(w.location)
	next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, w.location)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}
