package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/payments/internal/metrics"
	"github.com/allisson/payments/internal/payments/domain"
)

// paymentUseCaseWithMetrics decorates PaymentUseCase with duration instrumentation.
// Idempotency resolution counters are recorded inside the use case itself,
// because conflicts are classified mid-flow before the call returns.
type paymentUseCaseWithMetrics struct {
	next    PaymentUseCase
	metrics metrics.ResilienceMetrics
}

// NewPaymentUseCaseWithMetrics wraps a PaymentUseCase with metrics recording.
func NewPaymentUseCaseWithMetrics(useCase PaymentUseCase, m metrics.ResilienceMetrics) PaymentUseCase {
	return &paymentUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Create records the duration of payment creation.
func (s *paymentUseCaseWithMetrics) Create(
	ctx context.Context,
	key uuid.UUID,
	input CreatePaymentInput,
) (*CreatePaymentResult, error) {
	start := time.Now()
	result, err := s.next.Create(ctx, key, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordDuration(ctx, operationPaymentCreate, time.Since(start), status)

	return result, err
}

// GetByOrderID records the duration of payment retrieval.
func (s *paymentUseCaseWithMetrics) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*domain.Payment, error) {
	start := time.Now()
	payment, err := s.next.GetByOrderID(ctx, orderID)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordDuration(ctx, "payment_get", time.Since(start), status)

	return payment, err
}
