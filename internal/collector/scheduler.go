package collector

import (
	"context"
	"time"

	"github.com/nerrad567/sunflow/internal/infrastructure/logging"
)

// defaultInterval is the pause between cycles when none is configured.
const defaultInterval = 15 * time.Second

// Scheduler runs collection cycles at a fixed interval measured from the
// end of the previous cycle. A slow cycle pushes the next one back rather
// than shortening the pause; ticks are never skipped or compressed.
type Scheduler struct {
	collector *Collector
	interval  time.Duration
	logger    *logging.Logger
}

// NewScheduler creates a Scheduler. Intervals of zero or below fall back
// to the 15 second default.
func NewScheduler(c *Collector, interval time.Duration, logger *logging.Logger) *Scheduler {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Scheduler{
		collector: c,
		interval:  interval,
		logger:    logger.With("component", "scheduler"),
	}
}

// Run executes cycles until ctx is cancelled, starting with an immediate
// first cycle. Cycle-level errors are logged and the loop continues to the
// next tick; nothing a cycle does stops the scheduler. Returns the
// context's error on shutdown.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval.String())

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-timer.C:
		}

		if err := s.collector.RunCycle(ctx); err != nil {
			s.logger.Error("cycle failed", "error", err)
		}

		// Re-arm only after the cycle finished, so the interval is
		// measured from completion rather than from the previous tick.
		timer.Reset(s.interval)
	}
}
