package service

import (
	"context"
	"time"

	"hrms-backend/internal/logger"
)

// TokenPruner deletes refresh tokens that expired or were revoked before a cutoff
type TokenPruner interface {
	PruneExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

type WorkerService struct {
	pruner    TokenPruner
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
	log       *logger.Logger
}

func NewWorkerService(pruner TokenPruner, interval, retention time.Duration, log *logger.Logger) *WorkerService {
	return &WorkerService{
		pruner:    pruner,
		interval:  interval,
		retention: retention,
		now:       func() time.Time { return time.Now().UTC() },
		log:       log,
	}
}

// Start runs the session cleanup loop until ctx is cancelled
func (w *WorkerService) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info("session cleanup worker started", "interval", w.interval, "retention", w.retention)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("session cleanup worker stopped")
			return nil
		case <-ticker.C:
			w.pruneSessions(ctx)
		}
	}
}

// pruneSessions removes refresh tokens past the retention window
func (w *WorkerService) pruneSessions(ctx context.Context) int64 {
	cutoff := w.now().Add(-w.retention)
	n, err := w.pruner.PruneExpired(ctx, cutoff)
	if err != nil {
		w.log.Error("failed to prune refresh tokens", "error", err)
		return 0
	}
	if n > 0 {
		w.log.Info("pruned refresh tokens", "count", n, "cutoff", cutoff)
	}
	return n
}
