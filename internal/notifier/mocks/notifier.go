// Package mocks provides mock implementations for testing notification delivery.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/allisson/payments/internal/notifier"
	outboxDomain "github.com/allisson/payments/internal/outbox/domain"
)

// MockNotifier is a mock implementation of Notifier for testing.
type MockNotifier struct {
	mock.Mock
}

// Deliver mocks the Deliver method of Notifier.
func (m *MockNotifier) Deliver(
	ctx context.Context,
	messageType outboxDomain.MessageType,
	userID string,
) (notifier.DeliveryResult, error) {
	args := m.Called(ctx, messageType, userID)
	return args.Get(0).(notifier.DeliveryResult), args.Error(1)
}
