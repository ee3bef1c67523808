package usecase

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/allisson/payments/internal/database"
	"github.com/allisson/payments/internal/metrics"
	outboxDomain "github.com/allisson/payments/internal/outbox/domain"
	"github.com/allisson/payments/internal/payments/domain"
)

const operationPaymentCreate = "payment_create"

// paymentUseCase implements the PaymentUseCase interface.
type paymentUseCase struct {
	txManager       database.TxManager
	paymentRepo     PaymentRepository
	idempotencyRepo IdempotencyRepository
	outboxRepo      OutboxMessageRepository
	metrics         metrics.ResilienceMetrics
	processingDelay time.Duration
	finalizeTimeout time.Duration
}

// NewPaymentUseCase creates a new PaymentUseCase.
func NewPaymentUseCase(
	txManager database.TxManager,
	paymentRepo PaymentRepository,
	idempotencyRepo IdempotencyRepository,
	outboxRepo OutboxMessageRepository,
	resilienceMetrics metrics.ResilienceMetrics,
	processingDelay time.Duration,
	finalizeTimeout time.Duration,
) PaymentUseCase {
	return &paymentUseCase{
		txManager:       txManager,
		paymentRepo:     paymentRepo,
		idempotencyRepo: idempotencyRepo,
		outboxRepo:      outboxRepo,
		metrics:         resilienceMetrics,
		processingDelay: processingDelay,
		finalizeTimeout: finalizeTimeout,
	}
}

// Create processes a payment request idempotently.
//
// The claim on the idempotency key is a plain insert: the primary key makes
// exactly one concurrent caller win. Losers re-read the record and classify
// the call as a hit, an in-progress duplicate, or a parameter conflict.
func (s *paymentUseCase) Create(ctx context.Context, key uuid.UUID, input CreatePaymentInput) (*CreatePaymentResult, error) {
	input = input.normalized()
	if err := input.validateCurrency(); err != nil {
		return nil, err
	}

	// Persistence runs on a context detached from the caller so that a client
	// disconnect cannot leave a claimed key without a recorded outcome.
	dbCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.finalizeTimeout)
	defer cancel()

	now := time.Now().UTC()
	requestHash := domain.ComputeRequestHash(input.OrderID, input.UserID, input.Amount, input.Currency, input.Fingerprint)

	record := &domain.IdempotencyRecord{
		Key:         key,
		RequestHash: requestHash,
		PaymentID:   uuid.Must(uuid.NewV7()),
		Status:      domain.IdempotencyStatusInProgress,
		CreatedAt:   now,
	}

	claim, err := s.idempotencyRepo.Create(dbCtx, record)
	if err != nil {
		return nil, err
	}
	if claim == database.AlreadyExists {
		return s.resolveExistingClaim(ctx, key, requestHash, input.OrderID)
	}

	s.metrics.RecordIdempotencyResult(ctx, operationPaymentCreate, metrics.IdempotencyMiss)

	payment := &domain.Payment{
		ID:          record.PaymentID,
		OrderID:     input.OrderID,
		UserID:      input.UserID,
		Amount:      input.Amount,
		Currency:    input.Currency,
		Fingerprint: input.Fingerprint,
		Status:      domain.PaymentStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	inserted, err := s.paymentRepo.Create(dbCtx, payment)
	if err != nil {
		return nil, err
	}
	if inserted == database.AlreadyExists {
		// Another key already paid this order. The key stays claimed with a
		// failed outcome so retries replay the same answer.
		if err := s.recordOrderAlreadyPaid(dbCtx, record); err != nil {
			return nil, err
		}
		return nil, domain.ErrOrderAlreadyPaid
	}

	status, failureReason := s.performPaymentEffect(ctx)

	return s.finalize(ctx, dbCtx, payment, record, status, failureReason, input.UserID)
}

// GetByOrderID retrieves the payment for an order.
func (s *paymentUseCase) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*domain.Payment, error) {
	return s.paymentRepo.GetByOrderID(ctx, orderID)
}

// resolveExistingClaim classifies a lost claim against the stored record.
func (s *paymentUseCase) resolveExistingClaim(
	ctx context.Context,
	key uuid.UUID,
	requestHash string,
	orderID uuid.UUID,
) (*CreatePaymentResult, error) {
	existing, err := s.idempotencyRepo.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	if existing.RequestHash != requestHash {
		s.metrics.RecordIdempotencyResult(ctx, operationPaymentCreate, metrics.IdempotencyConflict)
		return nil, domain.ErrIdempotencyKeyReuse
	}

	if existing.Status == domain.IdempotencyStatusCompleted {
		s.metrics.RecordIdempotencyResult(ctx, operationPaymentCreate, metrics.IdempotencyHit)

		status := domain.PaymentStatusPending
		if existing.ResultStatus != nil {
			status = *existing.ResultStatus
		}

		return &CreatePaymentResult{
			PaymentID:     existing.PaymentID,
			OrderID:       orderID,
			Status:        status,
			FailureReason: existing.ResultError,
			Resolution:    domain.ResolutionHit,
		}, nil
	}

	s.metrics.RecordIdempotencyResult(ctx, operationPaymentCreate, metrics.IdempotencyInProgress)

	return &CreatePaymentResult{
		PaymentID:  existing.PaymentID,
		OrderID:    orderID,
		Status:     domain.PaymentStatusPending,
		Resolution: domain.ResolutionInProgress,
	}, nil
}

// performPaymentEffect simulates the external payment effect. Caller
// cancellation during the effect fails the payment; the failure is still
// recorded durably so retries replay it.
func (s *paymentUseCase) performPaymentEffect(ctx context.Context) (domain.PaymentStatus, *string) {
	timer := time.NewTimer(s.processingDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return domain.PaymentStatusCompleted, nil
	case <-ctx.Done():
		reason := domain.FailureReasonCanceled
		return domain.PaymentStatusFailed, &reason
	}
}

// finalize records the payment outcome, the idempotency completion, and (on
// success) the receipt notification in one transaction, so either all of it
// is visible or none of it.
func (s *paymentUseCase) finalize(
	ctx context.Context,
	dbCtx context.Context,
	payment *domain.Payment,
	record *domain.IdempotencyRecord,
	status domain.PaymentStatus,
	failureReason *string,
	userID string,
) (*CreatePaymentResult, error) {
	completedAt := time.Now().UTC()
	payment.Status = status
	payment.FailureReason = failureReason
	payment.UpdatedAt = completedAt
	payment.CompletedAt = &completedAt

	record.Status = domain.IdempotencyStatusCompleted
	record.ResultStatus = &status
	record.ResultError = failureReason

	receiptEnqueued := false
	err := s.txManager.WithTx(dbCtx, func(txCtx context.Context) error {
		if err := s.paymentRepo.Update(txCtx, payment); err != nil {
			return err
		}

		if status == domain.PaymentStatusCompleted {
			message := outboxDomain.NewMessage(outboxDomain.MessageTypeReceipt, userID, completedAt)
			if err := s.outboxRepo.Create(txCtx, message); err != nil {
				return err
			}
			receiptEnqueued = true
		}

		return s.idempotencyRepo.Update(txCtx, record)
	})
	if err != nil {
		return nil, err
	}

	if receiptEnqueued {
		s.metrics.OutboxEnqueued(ctx)
	}

	return &CreatePaymentResult{
		PaymentID:     payment.ID,
		OrderID:       payment.OrderID,
		Status:        status,
		FailureReason: failureReason,
		Resolution:    domain.ResolutionMiss,
	}, nil
}

// recordOrderAlreadyPaid completes the idempotency record with a failed
// outcome without persisting a payment row.
func (s *paymentUseCase) recordOrderAlreadyPaid(dbCtx context.Context, record *domain.IdempotencyRecord) error {
	status := domain.PaymentStatusFailed
	reason := domain.FailureReasonOrderAlreadyPaid

	record.Status = domain.IdempotencyStatusCompleted
	record.ResultStatus = &status
	record.ResultError = &reason

	return s.idempotencyRepo.Update(dbCtx, record)
}

// normalized returns the input with currency upper-cased and free-text fields
// trimmed, so equivalent requests produce the same request hash.
func (i CreatePaymentInput) normalized() CreatePaymentInput {
	i.UserID = strings.TrimSpace(i.UserID)
	i.Currency = strings.ToUpper(strings.TrimSpace(i.Currency))
	i.Fingerprint = strings.TrimSpace(i.Fingerprint)
	return i
}

// validateCurrency rejects currencies that are not 3-letter codes. The HTTP
// layer validates this too; the check here protects non-HTTP callers.
func (i CreatePaymentInput) validateCurrency() error {
	if len(i.Currency) != 3 {
		return domain.ErrInvalidCurrency
	}
	for _, r := range i.Currency {
		if !unicode.IsLetter(r) {
			return domain.ErrInvalidCurrency
		}
	}
	return nil
}
