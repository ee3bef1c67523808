// Package domain defines the outbox message model. Messages are written in
// the same database transaction as the business state change that produced
// them, then delivered asynchronously by the dispatcher.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// MessageType identifies the kind of notification a message carries.
type MessageType string

const (
	MessageTypeMagicLink MessageType = "magic_link"
	MessageTypeReceipt   MessageType = "receipt"
)

// MessageStatus represents the delivery status of an outbox message.
type MessageStatus string

const (
	MessageStatusPending MessageStatus = "pending"
	MessageStatusSent    MessageStatus = "sent"
	MessageStatusFailed  MessageStatus = "failed"
)

// OutboxMessage represents a notification pending delivery. Delivery is
// at-least-once: a crash between send and the status update re-delivers the
// message on the next pass.
type OutboxMessage struct {
	// ID is the message identifier.
	ID uuid.UUID
	// Type is the kind of notification to deliver.
	Type MessageType
	// UserID is the recipient reference forwarded to the notification service.
	UserID string
	// Status is the delivery status.
	Status MessageStatus
	// Attempts counts failed delivery attempts so far.
	Attempts int
	// NextAttemptAt is the earliest time the dispatcher may pick the message up.
	NextAttemptAt time.Time
	// CreatedAt is the UTC timestamp when the message was enqueued.
	CreatedAt time.Time
}

// NewMessage returns a pending message eligible for immediate dispatch.
func NewMessage(messageType MessageType, userID string, now time.Time) *OutboxMessage {
	return &OutboxMessage{
		ID:            uuid.Must(uuid.NewV7()),
		Type:          messageType,
		UserID:        userID,
		Status:        MessageStatusPending,
		Attempts:      0,
		NextAttemptAt: now,
		CreatedAt:     now,
	}
}
