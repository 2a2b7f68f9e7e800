package queue

import (
	"context"
	"sync"
	"time"

	"supplymatch_backend/internal/delivery"
	"supplymatch_backend/internal/logger"
	"supplymatch_backend/internal/models"
	"supplymatch_backend/internal/repositories"
)

// Task is one pending notification. Tasks live only in memory; a lost task is
// reconstructible from the match row and recovered by the reconciliation sweep.
type Task struct {
	MatchID        string
	SupplierID     string
	SupplierUserID string
	RequestID      string
	Summary        models.RequestSummary
	Attempt        int
}

// Options tune the worker pool and retry policy.
type Options struct {
	Workers        int
	MaxRetries     int           // total delivery attempts per task
	RetryDelay     time.Duration // base backoff, doubled per attempt
	AttemptTimeout time.Duration // per-attempt delivery timeout
}

func (o *Options) withDefaults() Options {
	opts := *o
	if opts.Workers <= 0 {
		opts.Workers = 2
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 10 * time.Second
	}
	if opts.AttemptTimeout <= 0 {
		opts.AttemptTimeout = 15 * time.Second
	}
	return opts
}

// NotificationQueue fans match notifications out to suppliers on a fixed pool
// of workers. Enqueue never blocks the caller; delivery is asynchronous and
// outlives the admin's approval call. A task is owned by exactly one worker at
// a time, so retries for one match are strictly sequential while different
// matches proceed independently.
type NotificationQueue struct {
	channel delivery.Channel
	matches repositories.MatchRepository
	opts    Options

	mu      sync.Mutex
	tasks   []*Task
	queued  map[string]struct{} // match ids currently queued or in flight
	wake    chan struct{}
	started bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewNotificationQueue(channel delivery.Channel, matches repositories.MatchRepository, opts Options) *NotificationQueue {
	return &NotificationQueue{
		channel: channel,
		matches: matches,
		opts:    opts.withDefaults(),
		queued:  make(map[string]struct{}),
		wake:    make(chan struct{}, 1),
	}
}

// Start launches the worker pool. Calling Start twice is a no-op.
func (q *NotificationQueue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return
	}
	q.started = true

	ctx, q.cancel = context.WithCancel(ctx)
	for i := 0; i < q.opts.Workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx, i)
	}
	logger.Info("notification queue started", "workers", q.opts.Workers)
}

// Stop cancels the workers and waits for in-flight deliveries to finish.
func (q *NotificationQueue) Stop() {
	q.mu.Lock()
	if !q.started {
		q.mu.Unlock()
		return
	}
	q.started = false
	cancel := q.cancel
	q.mu.Unlock()

	cancel()
	q.wg.Wait()
	logger.Info("notification queue stopped")
}

// Enqueue adds one notification task per match. Non-blocking: the approval
// call returns immediately regardless of how many suppliers matched. Matches
// already queued (or mid-retry) are skipped, which makes re-enqueue from the
// reconciliation sweep safe.
func (q *NotificationQueue) Enqueue(matches []models.Match, request *models.Request) {
	if len(matches) == 0 {
		logger.Debug("no matches to notify", "request_id", request.ID)
		return
	}

	summary := request.Summary()
	added := 0

	q.mu.Lock()
	for i := range matches {
		m := &matches[i]
		if _, ok := q.queued[m.ID]; ok {
			continue
		}
		supplierUserID := ""
		if m.Supplier != nil {
			supplierUserID = m.Supplier.CreatedBy
		}
		q.queued[m.ID] = struct{}{}
		q.tasks = append(q.tasks, &Task{
			MatchID:        m.ID,
			SupplierID:     m.SupplierID,
			SupplierUserID: supplierUserID,
			RequestID:      request.ID,
			Summary:        summary,
			Attempt:        0,
		})
		added++
	}
	q.mu.Unlock()

	if added > 0 {
		q.signal()
		logger.Info("queued supplier notifications", "request_id", request.ID, "count", added)
	}
}

// Size returns the number of tasks waiting in the queue (not in flight).
func (q *NotificationQueue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

func (q *NotificationQueue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// pop removes the head task. If more tasks remain it re-signals so idle
// workers pick them up.
func (q *NotificationQueue) pop() *Task {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.tasks) == 0 {
		return nil
	}
	task := q.tasks[0]
	q.tasks = q.tasks[1:]
	if len(q.tasks) > 0 {
		q.signal()
	}
	return task
}

// release drops the match from the dedup set once its task is finished,
// either delivered or dead-lettered.
func (q *NotificationQueue) release(matchID string) {
	q.mu.Lock()
	delete(q.queued, matchID)
	q.mu.Unlock()
}

// requeue puts a failed task back at the tail with its attempt count bumped.
func (q *NotificationQueue) requeue(task *Task) {
	q.mu.Lock()
	q.tasks = append(q.tasks, task)
	q.mu.Unlock()
	q.signal()
}

func (q *NotificationQueue) worker(ctx context.Context, id int) {
	defer q.wg.Done()

	for {
		task := q.pop()
		if task == nil {
			select {
			case <-ctx.Done():
				return
			case <-q.wake:
				continue
			}
		}

		q.process(ctx, task)

		// Bail out promptly on shutdown.
		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

// process runs one delivery attempt and decides between success, retry and
// dead-letter. The worker holds no locks across the delivery call or the
// backoff sleep.
func (q *NotificationQueue) process(ctx context.Context, task *Task) {
	attemptCtx, cancel := context.WithTimeout(ctx, q.opts.AttemptTimeout)
	err := q.channel.Deliver(attemptCtx, delivery.Notification{
		MatchID:        task.MatchID,
		SupplierID:     task.SupplierID,
		SupplierUserID: task.SupplierUserID,
		Request:        task.Summary,
	})
	cancel()

	task.Attempt++

	if err == nil {
		if markErr := q.matches.MarkNotified(ctx, task.MatchID, time.Now()); markErr != nil {
			logger.Error("failed to record delivery", "match_id", task.MatchID, "error", markErr)
		}
		logger.Info("notification delivered",
			"match_id", task.MatchID,
			"supplier_user_id", task.SupplierUserID,
			"attempt", task.Attempt,
		)
		q.release(task.MatchID)
		return
	}

	if ctx.Err() != nil {
		// Shutting down; the task is dropped and the reconciliation sweep
		// will re-enqueue the match on restart.
		q.release(task.MatchID)
		return
	}

	if task.Attempt >= q.opts.MaxRetries {
		// Dead-letter path: operator-visible, match stays pending so the
		// supplier can still respond through other means.
		logger.Error("notification delivery exhausted",
			"match_id", task.MatchID,
			"supplier_user_id", task.SupplierUserID,
			"attempts", task.Attempt,
			"error", err,
		)
		q.release(task.MatchID)
		return
	}

	delay := q.backoff(task.Attempt)
	logger.Warn("notification delivery failed, will retry",
		"match_id", task.MatchID,
		"attempt", task.Attempt,
		"max_retries", q.opts.MaxRetries,
		"retry_in", delay,
		"error", err,
	)

	select {
	case <-ctx.Done():
		q.release(task.MatchID)
	case <-time.After(delay):
		q.requeue(task)
	}
}

// backoff doubles the base delay for each attempt already made.
func (q *NotificationQueue) backoff(attempt int) time.Duration {
	delay := q.opts.RetryDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}
	return delay
}
