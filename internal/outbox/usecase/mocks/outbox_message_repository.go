// Package mocks provides mock implementations for testing outbox use cases and handlers.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/allisson/payments/internal/outbox/domain"
)

// MockOutboxMessageRepository is a mock implementation of OutboxMessageRepository for testing.
type MockOutboxMessageRepository struct {
	mock.Mock
}

// Create mocks the Create method of OutboxMessageRepository.
func (m *MockOutboxMessageRepository) Create(ctx context.Context, message *domain.OutboxMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

// GetDue mocks the GetDue method of OutboxMessageRepository.
func (m *MockOutboxMessageRepository) GetDue(ctx context.Context, now time.Time, limit int) ([]*domain.OutboxMessage, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.OutboxMessage), args.Error(1)
}

// Update mocks the Update method of OutboxMessageRepository.
func (m *MockOutboxMessageRepository) Update(ctx context.Context, message *domain.OutboxMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

// CountPending mocks the CountPending method of OutboxMessageRepository.
func (m *MockOutboxMessageRepository) CountPending(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockEnqueueUseCase is a mock implementation of EnqueueUseCase for testing HTTP handlers.
type MockEnqueueUseCase struct {
	mock.Mock
}

// Enqueue mocks the Enqueue method of EnqueueUseCase.
func (m *MockEnqueueUseCase) Enqueue(ctx context.Context, messageType domain.MessageType, userID string) (uuid.UUID, error) {
	args := m.Called(ctx, messageType, userID)
	return args.Get(0).(uuid.UUID), args.Error(1)
}
