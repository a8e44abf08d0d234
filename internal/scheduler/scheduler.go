// Package scheduler runs recurring jobs on fixed intervals, handing the
// actual execution to the worker pool.
package scheduler

import (
	"sync"
	"time"

	"github.com/sproutcare/engagement-engine/internal/worker"
)

// Scheduler owns one ticker goroutine per registered job
type Scheduler struct {
	pool *worker.Pool
	quit chan struct{}
	wg   sync.WaitGroup
}

// New creates a scheduler that enqueues into the given pool
func New(pool *worker.Pool) *Scheduler {
	return &Scheduler{
		pool: pool,
		quit: make(chan struct{}),
	}
}

// Schedule registers a job to run at a fixed interval. Enqueue blocks when
// the pool queue is full, which backpressures the schedule instead of
// stacking duplicate runs.
func (s *Scheduler) Schedule(interval time.Duration, job worker.Job) {
	s.wg.Add(1)
	go s.runLoop(interval, job)
}

func (s *Scheduler) runLoop(interval time.Duration, job worker.Job) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.pool.Enqueue(job)
		case <-s.quit:
			return
		}
	}
}

// Stop cancels every schedule and waits for the ticker goroutines to exit.
// Jobs already enqueued keep running on the pool.
func (s *Scheduler) Stop() {
	close(s.quit)
	s.wg.Wait()
}
