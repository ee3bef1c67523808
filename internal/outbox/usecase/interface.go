// Package usecase implements the outbox dispatcher and enqueue operations.
// The dispatcher drains the pending backlog on a fixed tick, delivering each
// message through the notifier and persisting the per-message outcome.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/payments/internal/outbox/domain"
)

// OutboxMessageRepository defines the interface for outbox message persistence operations.
type OutboxMessageRepository interface {
	Create(ctx context.Context, message *domain.OutboxMessage) error
	GetDue(ctx context.Context, now time.Time, limit int) ([]*domain.OutboxMessage, error)
	Update(ctx context.Context, message *domain.OutboxMessage) error
	CountPending(ctx context.Context) (int64, error)
}

// EnqueueUseCase defines the interface for enqueueing notifications outside
// the payment flow.
type EnqueueUseCase interface {
	Enqueue(ctx context.Context, messageType domain.MessageType, userID string) (uuid.UUID, error)
}
