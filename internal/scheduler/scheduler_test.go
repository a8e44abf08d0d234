package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sproutcare/engagement-engine/internal/worker"
)

type countingJob struct {
	runs int32
}

func (j *countingJob) Process(ctx context.Context) error {
	atomic.AddInt32(&j.runs, 1)
	return nil
}

func TestSchedule_RunsJobOnInterval(t *testing.T) {
	pool := worker.NewPool(1, 4)
	pool.Start()
	defer pool.Stop()

	s := New(pool)
	job := &countingJob{}
	s.Schedule(20*time.Millisecond, job)

	time.Sleep(110 * time.Millisecond)
	s.Stop()

	runs := atomic.LoadInt32(&job.runs)
	assert.GreaterOrEqual(t, runs, int32(3))
}

func TestStop_HaltsSchedule(t *testing.T) {
	pool := worker.NewPool(1, 4)
	pool.Start()
	defer pool.Stop()

	s := New(pool)
	job := &countingJob{}
	s.Schedule(10*time.Millisecond, job)

	time.Sleep(50 * time.Millisecond)
	s.Stop()
	// let any already-enqueued run finish before sampling
	time.Sleep(20 * time.Millisecond)
	after := atomic.LoadInt32(&job.runs)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, atomic.LoadInt32(&job.runs))
}
