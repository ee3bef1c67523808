// Package usecase defines the interfaces and implementations for payment use cases.
// Use cases orchestrate the idempotent create protocol: claim the idempotency key,
// perform the payment effect, then record the outcome and the outbox notification
// in a single transaction.
package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/allisson/payments/internal/database"
	outboxDomain "github.com/allisson/payments/internal/outbox/domain"
	"github.com/allisson/payments/internal/payments/domain"
)

// PaymentRepository defines the interface for payment persistence operations.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) (database.InsertResult, error)
	Update(ctx context.Context, payment *domain.Payment) error
	GetByOrderID(ctx context.Context, orderID uuid.UUID) (*domain.Payment, error)
}

// IdempotencyRepository defines the interface for idempotency record persistence operations.
type IdempotencyRepository interface {
	Create(ctx context.Context, record *domain.IdempotencyRecord) (database.InsertResult, error)
	GetByKey(ctx context.Context, key uuid.UUID) (*domain.IdempotencyRecord, error)
	Update(ctx context.Context, record *domain.IdempotencyRecord) error
}

// OutboxMessageRepository defines the subset of outbox persistence the payment
// flow needs: enqueueing a message inside the finalize transaction.
type OutboxMessageRepository interface {
	Create(ctx context.Context, message *outboxDomain.OutboxMessage) error
}

// CreatePaymentInput carries the business-relevant fields of a create request.
type CreatePaymentInput struct {
	OrderID     uuid.UUID
	UserID      string
	Amount      float64
	Currency    string
	Fingerprint string
}

// CreatePaymentResult is the outcome of a create call. Resolution tells the
// handler whether this is a fresh outcome (miss), a replayed one (hit), or a
// still-running duplicate (in_progress); conflicts surface as errors instead.
type CreatePaymentResult struct {
	PaymentID     uuid.UUID
	OrderID       uuid.UUID
	Status        domain.PaymentStatus
	FailureReason *string
	Resolution    domain.Resolution
}

// PaymentUseCase defines the interface for payment business logic.
type PaymentUseCase interface {
	// Create processes a payment request idempotently. Concurrent calls with the
	// same key never produce two payments: exactly one caller wins the claim and
	// performs the effect, the rest observe the recorded outcome.
	Create(ctx context.Context, key uuid.UUID, input CreatePaymentInput) (*CreatePaymentResult, error)
	GetByOrderID(ctx context.Context, orderID uuid.UUID) (*domain.Payment, error)
}
