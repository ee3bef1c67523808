// Package domain defines the core domain models for payment processing.
// A payment is created at most once per order; the storage layer's unique
// constraint on the order reference is the only enforcement mechanism.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus represents the lifecycle status of a payment. The values are
// part of the HTTP contract and are stored verbatim.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "Pending"
	PaymentStatusCompleted PaymentStatus = "Completed"
	PaymentStatusFailed    PaymentStatus = "Failed"
)

// Failure reasons recorded on failed payments.
const (
	FailureReasonOrderAlreadyPaid = "OrderAlreadyPaid"
	FailureReasonCanceled         = "Canceled"
	FailureReasonProcessingError  = "ProcessingError"
)

// Payment represents a payment for an order.
type Payment struct {
	// ID is the system-generated payment identifier.
	ID uuid.UUID
	// OrderID is the order this payment belongs to. Unique across all payments.
	OrderID uuid.UUID
	// UserID is the opaque, already-authenticated payer reference.
	UserID string
	// Amount is the payment amount in major units with two decimal places.
	Amount float64
	// Currency is the normalized 3-letter ISO currency code.
	Currency string
	// Fingerprint is the trimmed client fingerprint supplied with the request.
	Fingerprint string
	// Status is the payment lifecycle status.
	Status PaymentStatus
	// FailureReason is set when Status is Failed (nil otherwise).
	FailureReason *string
	// CreatedAt is the UTC timestamp when the payment was created.
	CreatedAt time.Time
	// UpdatedAt is the UTC timestamp of the last state change.
	UpdatedAt time.Time
	// CompletedAt is set once the payment reaches a terminal status.
	CompletedAt *time.Time
}
