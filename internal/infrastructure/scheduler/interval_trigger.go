package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job is a unit of periodic work driven by an IntervalTrigger
type Job func(ctx context.Context) error

// IntervalTrigger runs a job on a fixed interval. Each tick runs the job at
// most once; a tick that fires while the job is still running is skipped.
type IntervalTrigger struct {
	name     string
	interval time.Duration
	job      Job
	logger   *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewIntervalTrigger creates a new interval trigger
func NewIntervalTrigger(name string, interval time.Duration, job Job, logger *zap.Logger) *IntervalTrigger {
	return &IntervalTrigger{
		name:     name,
		interval: interval,
		job:      job,
		logger:   logger,
	}
}

// Start starts the trigger loop
func (t *IntervalTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = true
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.wg.Add(1)
	go t.runLoop(ctx)

	t.logger.Info("Interval trigger started",
		zap.String("name", t.name),
		zap.Duration("interval", t.interval),
	)
	return nil
}

// Stop stops the trigger loop, waiting for an in-flight run to finish
func (t *IntervalTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("Interval trigger stopped", zap.String("name", t.name))
		return nil
	case <-ctx.Done():
		t.logger.Warn("Interval trigger stop timed out", zap.String("name", t.name))
		return ctx.Err()
	}
}

func (t *IntervalTrigger) runLoop(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := t.job(ctx); err != nil {
				t.logger.Error("scheduled job failed",
					zap.String("name", t.name),
					zap.Error(err),
				)
			}
		}
	}
}
