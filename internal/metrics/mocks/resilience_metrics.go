// Package mocks provides mock implementations for testing metrics instrumentation.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/allisson/payments/internal/metrics"
)

// MockResilienceMetrics is a mock implementation of ResilienceMetrics for testing.
type MockResilienceMetrics struct {
	mock.Mock
}

// RecordIdempotencyResult mocks the RecordIdempotencyResult method.
func (m *MockResilienceMetrics) RecordIdempotencyResult(
	ctx context.Context,
	operation string,
	result metrics.IdempotencyResult,
) {
	m.Called(ctx, operation, result)
}

// CircuitBreakerShortCircuit mocks the CircuitBreakerShortCircuit method.
func (m *MockResilienceMetrics) CircuitBreakerShortCircuit(ctx context.Context, dependency string) {
	m.Called(ctx, dependency)
}

// OutboxEnqueued mocks the OutboxEnqueued method.
func (m *MockResilienceMetrics) OutboxEnqueued(ctx context.Context) {
	m.Called(ctx)
}

// OutboxDispatched mocks the OutboxDispatched method.
func (m *MockResilienceMetrics) OutboxDispatched(ctx context.Context) {
	m.Called(ctx)
}

// OutboxDispatchResult mocks the OutboxDispatchResult method.
func (m *MockResilienceMetrics) OutboxDispatchResult(ctx context.Context, result metrics.DispatchResult) {
	m.Called(ctx, result)
}

// RecordDuration mocks the RecordDuration method.
func (m *MockResilienceMetrics) RecordDuration(
	ctx context.Context,
	operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, operation, duration, status)
}

// SyncOutboxPending mocks the SyncOutboxPending method.
func (m *MockResilienceMetrics) SyncOutboxPending(pending int64) {
	m.Called(pending)
}
