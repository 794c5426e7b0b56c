package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/department-summary/internal/domain"
)

// Refreshable runs one fetch cycle.
type Refreshable interface {
	Refresh(ctx context.Context) (*domain.Snapshot, error)
}

// Refresher drives fetch cycles: one at start, then one per interval when
// an interval is set. Failed cycles are logged and wait for the next tick.
type Refresher struct {
	target   Refreshable
	interval time.Duration
	logger   *zap.Logger
}

// NewRefresher builds a refresher. A zero interval means start-up only.
func NewRefresher(target Refreshable, interval time.Duration, logger *zap.Logger) *Refresher {
	return &Refresher{target: target, interval: interval, logger: logger}
}

// Run blocks until ctx is done or, without an interval, until the start-up
// cycle has finished.
func (r *Refresher) Run(ctx context.Context) error {
	r.runOnce(ctx)
	if r.interval <= 0 {
		return nil
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.runOnce(ctx)
		}
	}
}

func (r *Refresher) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if _, err := r.target.Refresh(ctx); err != nil {
		r.logger.Warn("refresh cycle failed", zap.Error(err))
	}
}
