// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/payments/internal/validation"
)

// CreatePaymentRequest contains the parameters for creating a payment.
// The idempotency key is carried in the Idempotency-Key header, not the body.
type CreatePaymentRequest struct {
	OrderID     uuid.UUID `json:"orderId"`
	UserID      string    `json:"userId"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	Fingerprint string    `json:"fingerprint"`
}

// Validate checks if the create payment request is valid.
func (r *CreatePaymentRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.OrderID, validation.Required),
		validation.Field(&r.UserID, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Amount, validation.Required, validation.Min(0.01)),
		validation.Field(&r.Currency, validation.Required, customValidation.CurrencyCode{}),
		validation.Field(&r.Fingerprint, validation.Required, validation.Length(1, 512)),
	)
}
