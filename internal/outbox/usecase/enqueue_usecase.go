package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/payments/internal/metrics"
	"github.com/allisson/payments/internal/outbox/domain"
)

// enqueueUseCase implements EnqueueUseCase.
type enqueueUseCase struct {
	outboxRepo OutboxMessageRepository
	metrics    metrics.ResilienceMetrics
}

// NewEnqueueUseCase creates a new EnqueueUseCase.
func NewEnqueueUseCase(outboxRepo OutboxMessageRepository, m metrics.ResilienceMetrics) EnqueueUseCase {
	return &enqueueUseCase{
		outboxRepo: outboxRepo,
		metrics:    m,
	}
}

// Enqueue persists a pending message eligible for immediate dispatch.
func (s *enqueueUseCase) Enqueue(ctx context.Context, messageType domain.MessageType, userID string) (uuid.UUID, error) {
	message := domain.NewMessage(messageType, userID, time.Now().UTC())

	if err := s.outboxRepo.Create(ctx, message); err != nil {
		return uuid.Nil, err
	}

	s.metrics.OutboxEnqueued(ctx)

	return message.ID, nil
}
