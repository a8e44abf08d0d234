package engine

import (
	"context"
	"time"
)

// SnapshotJob flushes cached states to the store on the snapshot schedule
type SnapshotJob struct {
	engine *Engine
}

// NewSnapshotJob creates a snapshot flush job
func NewSnapshotJob(e *Engine) *SnapshotJob {
	return &SnapshotJob{engine: e}
}

// Process executes the flush
func (j *SnapshotJob) Process(ctx context.Context) error {
	j.engine.FlushStates(ctx)
	return nil
}

// InactivityScanJob looks for users past the inactivity threshold
type InactivityScanJob struct {
	engine    *Engine
	threshold time.Duration
}

// NewInactivityScanJob creates an inactivity scan job
func NewInactivityScanJob(e *Engine, threshold time.Duration) *InactivityScanJob {
	return &InactivityScanJob{engine: e, threshold: threshold}
}

// Process executes the scan
func (j *InactivityScanJob) Process(ctx context.Context) error {
	_, err := j.engine.ScanInactivity(ctx, j.threshold)
	return err
}
