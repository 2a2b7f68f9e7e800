package workers

import (
	"context"
	"time"

	"supplymatch_backend/internal/logger"
	"supplymatch_backend/internal/models"
	"supplymatch_backend/internal/repositories"
	"supplymatch_backend/internal/services"
)

// ReconcileWorker periodically re-enqueues pending matches whose notification
// was never recorded. The notification queue is in-memory, so a crash between
// match creation and delivery would otherwise lose the task forever.
type ReconcileWorker struct {
	matchRepo repositories.MatchRepository
	notifier  services.Notifier
	interval  time.Duration
	grace     time.Duration
}

func NewReconcileWorker(
	matchRepo repositories.MatchRepository,
	notifier services.Notifier,
	interval, grace time.Duration,
) *ReconcileWorker {
	return &ReconcileWorker{
		matchRepo: matchRepo,
		notifier:  notifier,
		interval:  interval,
		grace:     grace,
	}
}

func (w *ReconcileWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *ReconcileWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("reconcile worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

// sweep finds pending matches with no delivery record older than the grace
// period and hands them back to the queue. The grace period keeps the sweep
// from racing tasks that are still mid-retry; the queue's dedup set makes a
// duplicate hand-off harmless anyway.
func (w *ReconcileWorker) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-w.grace)
	matches, err := w.matchRepo.FindUnnotifiedPending(ctx, cutoff)
	if err != nil {
		logger.Error("reconcile sweep failed", "error", err)
		return
	}
	if len(matches) == 0 {
		return
	}

	byRequest := make(map[string][]models.Match)
	requests := make(map[string]*models.Request)
	for _, m := range matches {
		if m.Request == nil {
			continue
		}
		byRequest[m.RequestID] = append(byRequest[m.RequestID], m)
		requests[m.RequestID] = m.Request
	}

	for requestID, group := range byRequest {
		w.notifier.Enqueue(group, requests[requestID])
	}

	logger.Info("reconcile sweep re-enqueued unnotified matches",
		"matches", len(matches),
		"requests", len(byRequest),
	)
}
