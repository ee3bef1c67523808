package domain

import (
	"github.com/allisson/payments/internal/errors"
)

// Payment-specific error definitions.
var (
	// ErrPaymentNotFound indicates no payment exists for the requested order.
	ErrPaymentNotFound = errors.Wrap(errors.ErrNotFound, "payment not found")

	// ErrOrderAlreadyPaid indicates another payment already exists for the order.
	ErrOrderAlreadyPaid = errors.Wrap(errors.ErrConflict, "order already paid")

	// ErrIdempotencyKeyReuse indicates the idempotency key was reused with
	// different request parameters.
	ErrIdempotencyKeyReuse = errors.Wrap(errors.ErrConflict, "idempotency key reused with different parameters")

	// ErrInvalidCurrency indicates the currency is not a 3-letter ISO code.
	ErrInvalidCurrency = errors.Wrap(errors.ErrInvalidInput, "currency must be a 3-letter ISO code")
)
