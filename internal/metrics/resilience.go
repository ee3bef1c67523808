package metrics

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// IdempotencyResult classifies how an idempotency key resolved.
type IdempotencyResult string

const (
	IdempotencyMiss       IdempotencyResult = "miss"
	IdempotencyHit        IdempotencyResult = "hit"
	IdempotencyInProgress IdempotencyResult = "in_progress"
	IdempotencyConflict   IdempotencyResult = "conflict"
)

// DispatchResult classifies the terminal outcome of an outbox message.
type DispatchResult string

const (
	DispatchSent   DispatchResult = "sent"
	DispatchFailed DispatchResult = "failed"
)

// ResilienceMetrics is the sink for idempotency outcomes, circuit-breaker trips
// and outbox backlog/dispatch observations. It is constructed once at startup
// and injected into every component that emits observations.
type ResilienceMetrics interface {
	// RecordIdempotencyResult counts an idempotency resolution tagged by
	// operation name and result (miss/hit/in_progress/conflict).
	RecordIdempotencyResult(ctx context.Context, operation string, result IdempotencyResult)

	// CircuitBreakerShortCircuit counts a call rejected by an open circuit,
	// tagged by the dependency name.
	CircuitBreakerShortCircuit(ctx context.Context, dependency string)

	// OutboxEnqueued counts a newly created outbox message and increments the
	// backlog gauge. Call after the enclosing transaction has committed.
	OutboxEnqueued(ctx context.Context)

	// OutboxDispatched counts an outbox message leaving the backlog (Sent or
	// Failed) and decrements the backlog gauge. Exactly once per message.
	OutboxDispatched(ctx context.Context)

	// OutboxDispatchResult counts the terminal outcome of an outbox message.
	OutboxDispatchResult(ctx context.Context, result DispatchResult)

	// RecordDuration records the duration of an operation with its status.
	RecordDuration(ctx context.Context, operation string, duration time.Duration, status string)

	// SyncOutboxPending overwrites the backlog gauge with the true pending
	// count, used at dispatcher startup after a restart.
	SyncOutboxPending(pending int64)
}

// resilienceMetrics implements ResilienceMetrics using OpenTelemetry metrics.
type resilienceMetrics struct {
	idempotencyResultTotal   metric.Int64Counter
	shortCircuitTotal        metric.Int64Counter
	outboxEnqueuedTotal      metric.Int64Counter
	outboxDispatchedTotal    metric.Int64Counter
	outboxDispatchResult     metric.Int64Counter
	operationDurationSeconds metric.Float64Histogram

	// outboxPending backs the observable backlog gauge.
	outboxPending atomic.Int64
}

// NewResilienceMetrics creates a ResilienceMetrics implementation using the
// provided meter provider. The namespace parameter is used as a prefix for all
// metric names. Returns error if instruments cannot be initialized.
func NewResilienceMetrics(meterProvider metric.MeterProvider, namespace string) (ResilienceMetrics, error) {
	meter := meterProvider.Meter(namespace)

	m := &resilienceMetrics{}

	var err error

	m.idempotencyResultTotal, err = meter.Int64Counter(
		fmt.Sprintf("%s_idempotency_result_total", namespace),
		metric.WithDescription("Idempotency key resolutions: miss/hit/in_progress/conflict"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create idempotency result counter: %w", err)
	}

	m.shortCircuitTotal, err = meter.Int64Counter(
		fmt.Sprintf("%s_circuit_breaker_short_circuit_total", namespace),
		metric.WithDescription("Calls rejected by an open circuit breaker"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create short circuit counter: %w", err)
	}

	m.outboxEnqueuedTotal, err = meter.Int64Counter(
		fmt.Sprintf("%s_outbox_enqueued_total", namespace),
		metric.WithDescription("Outbox messages created"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create outbox enqueued counter: %w", err)
	}

	m.outboxDispatchedTotal, err = meter.Int64Counter(
		fmt.Sprintf("%s_outbox_dispatched_total", namespace),
		metric.WithDescription("Outbox messages finalized as Sent or Failed"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create outbox dispatched counter: %w", err)
	}

	m.outboxDispatchResult, err = meter.Int64Counter(
		fmt.Sprintf("%s_outbox_dispatch_result_total", namespace),
		metric.WithDescription("Terminal outbox dispatch outcomes: sent/failed"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create outbox dispatch result counter: %w", err)
	}

	m.operationDurationSeconds, err = meter.Float64Histogram(
		fmt.Sprintf("%s_operation_duration_seconds", namespace),
		metric.WithDescription("Duration of business operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	_, err = meter.Int64ObservableGauge(
		fmt.Sprintf("%s_outbox_pending_count", namespace),
		metric.WithDescription("Outbox messages currently waiting for dispatch"),
		metric.WithUnit("{message}"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(m.outboxPending.Load())
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create outbox pending gauge: %w", err)
	}

	return m, nil
}

// RecordIdempotencyResult increments the idempotency counter with operation and result labels.
func (m *resilienceMetrics) RecordIdempotencyResult(
	ctx context.Context,
	operation string,
	result IdempotencyResult,
) {
	if operation == "" {
		operation = "unknown"
	}

	m.idempotencyResultTotal.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("result", string(result)),
		),
	)
}

// CircuitBreakerShortCircuit increments the short-circuit counter with a dependency label.
func (m *resilienceMetrics) CircuitBreakerShortCircuit(ctx context.Context, dependency string) {
	if dependency == "" {
		dependency = "unknown"
	}

	m.shortCircuitTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("dependency", dependency)),
	)
}

// OutboxEnqueued counts a created message and grows the backlog gauge.
func (m *resilienceMetrics) OutboxEnqueued(ctx context.Context) {
	m.outboxEnqueuedTotal.Add(ctx, 1)
	m.outboxPending.Add(1)
}

// OutboxDispatched counts a finalized message and shrinks the backlog gauge.
func (m *resilienceMetrics) OutboxDispatched(ctx context.Context) {
	m.outboxDispatchedTotal.Add(ctx, 1)
	m.outboxPending.Add(-1)
}

// OutboxDispatchResult counts the terminal outcome with a result label.
func (m *resilienceMetrics) OutboxDispatchResult(ctx context.Context, result DispatchResult) {
	m.outboxDispatchResult.Add(ctx, 1,
		metric.WithAttributes(attribute.String("result", string(result))),
	)
}

// RecordDuration records the operation duration in seconds with operation and status labels.
func (m *resilienceMetrics) RecordDuration(
	ctx context.Context,
	operation string,
	duration time.Duration,
	status string,
) {
	m.operationDurationSeconds.Record(ctx, duration.Seconds(),
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("status", status),
		),
	)
}

// SyncOutboxPending overwrites the backlog gauge.
func (m *resilienceMetrics) SyncOutboxPending(pending int64) {
	m.outboxPending.Store(pending)
}

// NoOpResilienceMetrics is a no-op implementation for when metrics are disabled.
type NoOpResilienceMetrics struct{}

// NewNoOpResilienceMetrics creates a no-op ResilienceMetrics implementation.
func NewNoOpResilienceMetrics() ResilienceMetrics {
	return &NoOpResilienceMetrics{}
}

// RecordIdempotencyResult does nothing when metrics are disabled.
func (n *NoOpResilienceMetrics) RecordIdempotencyResult(
	ctx context.Context,
	operation string,
	result IdempotencyResult,
) {
	// No-op
}

// CircuitBreakerShortCircuit does nothing when metrics are disabled.
func (n *NoOpResilienceMetrics) CircuitBreakerShortCircuit(ctx context.Context, dependency string) {
	// No-op
}

// OutboxEnqueued does nothing when metrics are disabled.
func (n *NoOpResilienceMetrics) OutboxEnqueued(ctx context.Context) {
	// No-op
}

// OutboxDispatched does nothing when metrics are disabled.
func (n *NoOpResilienceMetrics) OutboxDispatched(ctx context.Context) {
	// No-op
}

// OutboxDispatchResult does nothing when metrics are disabled.
func (n *NoOpResilienceMetrics) OutboxDispatchResult(ctx context.Context, result DispatchResult) {
	// No-op
}

// RecordDuration does nothing when metrics are disabled.
func (n *NoOpResilienceMetrics) RecordDuration(
	ctx context.Context,
	operation string,
	duration time.Duration,
	status string,
) {
	// No-op
}

// SyncOutboxPending does nothing when metrics are disabled.
func (n *NoOpResilienceMetrics) SyncOutboxPending(pending int64) {
	// No-op
}
