package worker

import (
	"context"
	"sync"

	"github.com/sproutcare/engagement-engine/internal/logger"
	"github.com/sproutcare/engagement-engine/internal/metrics"
)

// Job is a unit of background work
type Job interface {
	Process(ctx context.Context) error
}

// Pool fans jobs out to a fixed set of worker goroutines through a bounded
// queue. A failing job is logged and counted, never crashes a worker.
type Pool struct {
	workers  int
	jobQueue chan Job
	quit     chan struct{}
	wg       sync.WaitGroup
}

// NewPool creates a pool with the given worker count and queue capacity.
// Call Start before enqueueing.
func NewPool(workers int, queueSize int) *Pool {
	return &Pool{
		workers:  workers,
		jobQueue: make(chan Job, queueSize),
		quit:     make(chan struct{}),
	}
}

// Start launches the worker goroutines
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case job := <-p.jobQueue:
			p.run(job)
		case <-p.quit:
			p.drain()
			return
		}
	}
}

// drain runs jobs that were already queued when Stop was called. Snapshot
// flushes enqueued just before shutdown still reach the store this way.
func (p *Pool) drain() {
	for {
		select {
		case job := <-p.jobQueue:
			p.run(job)
		default:
			return
		}
	}
}

func (p *Pool) run(job Job) {
	metrics.WorkerQueueDepth.Dec()
	ctx := context.Background()
	if err := job.Process(ctx); err != nil {
		metrics.WorkerJobFailures.Inc()
		logger.FromContext(ctx).Error(LogMsgWorkerJobFailed, "error", err)
	}
}

// Enqueue adds a job to the queue, blocking while the queue is full.
// The depth gauge counts the blocked producer too.
func (p *Pool) Enqueue(job Job) {
	metrics.WorkerQueueDepth.Inc()
	p.jobQueue <- job
}

// Stop signals the workers, lets them drain the queue, and waits for exit
func (p *Pool) Stop() {
	close(p.quit)
	p.wg.Wait()
}
