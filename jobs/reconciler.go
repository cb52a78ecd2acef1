// Package jobs holds background work that runs alongside the HTTP server.
package jobs

import (
	"context"
	"time"

	"github.com/kelydev/apiGrants/metrics"
	"github.com/kelydev/apiGrants/models"
	"github.com/kelydev/apiGrants/repository"
	"go.uber.org/zap"
)

// Reconciler periodically marks pending deliverables whose due date has
// passed as overdue.
type Reconciler struct {
	db       repository.DBTX
	logger   *zap.Logger
	interval time.Duration
	now      func() time.Time
}

func NewReconciler(db repository.DBTX, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		db:       db,
		logger:   logger,
		interval: time.Hour,
		now:      time.Now,
	}
}

// WithInterval sets how often the sweep runs.
func (r *Reconciler) WithInterval(interval time.Duration) *Reconciler {
	if interval > 0 {
		r.interval = interval
	}
	return r
}

// Start sweeps once immediately, then on every tick until ctx is done.
func (r *Reconciler) Start(ctx context.Context) {
	r.logger.Info("Starting deliverable reconciler", zap.Duration("interval", r.interval))

	r.RunOnce(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Deliverable reconciler stopped")
			return
		case <-ticker.C:
			r.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single sweep and returns how many deliverables moved.
func (r *Reconciler) RunOnce(ctx context.Context) int64 {
	n, err := repository.MarkOverdueDeliverables(ctx, r.db, models.NewDate(r.now()))
	if err != nil {
		if ctx.Err() == nil {
			metrics.ReconcileFailures.Inc()
			r.logger.Error("Failed to mark overdue deliverables", zap.Error(err))
		}
		return 0
	}
	if n > 0 {
		metrics.DeliverablesMarkedOverdue.Add(float64(n))
		r.logger.Info("Marked deliverables overdue", zap.Int64("count", n))
	}
	return n
}
