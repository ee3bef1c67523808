// Package mocks provides mock implementations for testing payment use cases and handlers.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/allisson/payments/internal/database"
	outboxDomain "github.com/allisson/payments/internal/outbox/domain"
	"github.com/allisson/payments/internal/payments/domain"
	"github.com/allisson/payments/internal/payments/usecase"
)

// MockPaymentRepository is a mock implementation of PaymentRepository for testing.
type MockPaymentRepository struct {
	mock.Mock
}

// Create mocks the Create method of PaymentRepository.
func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) (database.InsertResult, error) {
	args := m.Called(ctx, payment)
	return args.Get(0).(database.InsertResult), args.Error(1)
}

// Update mocks the Update method of PaymentRepository.
func (m *MockPaymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

// GetByOrderID mocks the GetByOrderID method of PaymentRepository.
func (m *MockPaymentRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*domain.Payment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

// MockIdempotencyRepository is a mock implementation of IdempotencyRepository for testing.
type MockIdempotencyRepository struct {
	mock.Mock
}

// Create mocks the Create method of IdempotencyRepository.
func (m *MockIdempotencyRepository) Create(ctx context.Context, record *domain.IdempotencyRecord) (database.InsertResult, error) {
	args := m.Called(ctx, record)
	return args.Get(0).(database.InsertResult), args.Error(1)
}

// GetByKey mocks the GetByKey method of IdempotencyRepository.
func (m *MockIdempotencyRepository) GetByKey(ctx context.Context, key uuid.UUID) (*domain.IdempotencyRecord, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IdempotencyRecord), args.Error(1)
}

// Update mocks the Update method of IdempotencyRepository.
func (m *MockIdempotencyRepository) Update(ctx context.Context, record *domain.IdempotencyRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// MockOutboxMessageRepository is a mock implementation of OutboxMessageRepository for testing.
type MockOutboxMessageRepository struct {
	mock.Mock
}

// Create mocks the Create method of OutboxMessageRepository.
func (m *MockOutboxMessageRepository) Create(ctx context.Context, message *outboxDomain.OutboxMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

// MockPaymentUseCase is a mock implementation of PaymentUseCase for testing HTTP handlers.
type MockPaymentUseCase struct {
	mock.Mock
}

// Create mocks the Create method of PaymentUseCase.
func (m *MockPaymentUseCase) Create(
	ctx context.Context,
	key uuid.UUID,
	input usecase.CreatePaymentInput,
) (*usecase.CreatePaymentResult, error) {
	args := m.Called(ctx, key, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.CreatePaymentResult), args.Error(1)
}

// GetByOrderID mocks the GetByOrderID method of PaymentUseCase.
func (m *MockPaymentUseCase) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*domain.Payment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
