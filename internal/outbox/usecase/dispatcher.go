package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/allisson/payments/internal/metrics"
	"github.com/allisson/payments/internal/notifier"
	"github.com/allisson/payments/internal/outbox/domain"
)

// DispatcherConfig holds the dispatcher's tuning knobs.
type DispatcherConfig struct {
	// BatchSize is the maximum number of messages claimed per tick.
	BatchSize int
	// PollInterval is the tick interval.
	PollInterval time.Duration
	// MaxAttempts is the number of failed attempts after which a message is
	// marked failed permanently.
	MaxAttempts int
	// BackoffBase is the base delay for exponential retry backoff.
	BackoffBase time.Duration
	// BackoffCap is the maximum retry backoff delay.
	BackoffCap time.Duration
}

// Dispatcher drains the outbox backlog in the background. It never aborts on
// per-message or per-tick errors; the next tick simply retries.
type Dispatcher struct {
	config     DispatcherConfig
	outboxRepo OutboxMessageRepository
	notifier   notifier.Notifier
	metrics    metrics.ResilienceMetrics
	logger     *slog.Logger
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(
	config DispatcherConfig,
	outboxRepo OutboxMessageRepository,
	n notifier.Notifier,
	m metrics.ResilienceMetrics,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		config:     config,
		outboxRepo: outboxRepo,
		notifier:   n,
		metrics:    m,
		logger:     logger,
	}
}

// Start runs the dispatch loop until the context is canceled. The backlog
// gauge is reconciled from storage once at startup, so a restart does not
// leave it stale.
func (d *Dispatcher) Start(ctx context.Context) error {
	if count, err := d.outboxRepo.CountPending(ctx); err != nil {
		d.logger.Error("failed to count pending outbox messages", slog.String("error", err.Error()))
	} else {
		d.metrics.SyncOutboxPending(count)
	}

	d.logger.Info("outbox dispatcher started",
		slog.Int("batch_size", d.config.BatchSize),
		slog.Duration("poll_interval", d.config.PollInterval),
	)

	ticker := time.NewTicker(d.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("outbox dispatcher stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := d.ProcessBatch(ctx, time.Now().UTC()); err != nil {
				d.logger.Error("outbox batch failed", slog.String("error", err.Error()))
			}
		}
	}
}

// ProcessBatch claims due messages and dispatches them in creation order.
// Each message's outcome is persisted individually, so a crash mid-batch
// loses at most the in-flight message's state update, which re-delivers it.
//
// Shutdown is honored at tick boundaries only: a claimed batch runs on a
// context detached from cancellation, so a just-delivered message always gets
// its sent state persisted instead of being re-delivered on the next run.
func (d *Dispatcher) ProcessBatch(ctx context.Context, now time.Time) error {
	messages, err := d.outboxRepo.GetDue(ctx, now, d.config.BatchSize)
	if err != nil {
		return err
	}

	batchCtx := context.WithoutCancel(ctx)

	for _, message := range messages {
		d.dispatchMessage(batchCtx, now, message)

		if err := d.outboxRepo.Update(batchCtx, message); err != nil {
			d.logger.Error("failed to persist outbox message state",
				slog.String("message_id", message.ID.String()),
				slog.String("error", err.Error()),
			)
		}
	}

	return nil
}

// dispatchMessage attempts delivery and mutates the message to its next
// state: sent, retried later with backoff, or failed permanently.
func (d *Dispatcher) dispatchMessage(ctx context.Context, now time.Time, message *domain.OutboxMessage) {
	result, err := d.notifier.Deliver(ctx, message.Type, message.UserID)

	if result == notifier.Delivered {
		message.Status = domain.MessageStatusSent
		d.metrics.OutboxDispatchResult(ctx, metrics.DispatchSent)
		d.metrics.OutboxDispatched(ctx)
		return
	}

	if result == notifier.CircuitOpen {
		d.metrics.CircuitBreakerShortCircuit(ctx, notifier.DependencyName)
	}

	message.Attempts++
	message.NextAttemptAt = now.Add(d.backoff(message.Attempts))

	d.logger.Warn("outbox delivery attempt failed",
		slog.String("message_id", message.ID.String()),
		slog.String("message_type", string(message.Type)),
		slog.Int("attempts", message.Attempts),
		slog.String("error", errString(err)),
	)

	if message.Attempts >= d.config.MaxAttempts {
		message.Status = domain.MessageStatusFailed
		d.metrics.OutboxDispatchResult(ctx, metrics.DispatchFailed)
		d.metrics.OutboxDispatched(ctx)
	}
}

// backoff returns the exponential delay for the given failed attempt count,
// capped at the configured maximum.
func (d *Dispatcher) backoff(attempts int) time.Duration {
	delay := d.config.BackoffBase
	for i := 1; i < attempts; i++ {
		delay *= 2
		if delay >= d.config.BackoffCap {
			return d.config.BackoffCap
		}
	}
	if delay > d.config.BackoffCap {
		return d.config.BackoffCap
	}
	return delay
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
