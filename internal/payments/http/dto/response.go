package dto

import (
	"time"

	"github.com/allisson/payments/internal/payments/domain"
	"github.com/allisson/payments/internal/payments/usecase"
)

// CreatePaymentResponse is returned from payment creation, both for fresh
// outcomes and for replayed ones.
type CreatePaymentResponse struct {
	PaymentID string  `json:"paymentId"`
	Status    string  `json:"status"`
	Error     *string `json:"error,omitempty"`
}

// MapResultToCreateResponse converts a use case result to an API response.
func MapResultToCreateResponse(result *usecase.CreatePaymentResult) CreatePaymentResponse {
	return CreatePaymentResponse{
		PaymentID: result.PaymentID.String(),
		Status:    string(result.Status),
		Error:     result.FailureReason,
	}
}

// PaymentResponse is the full payment projection returned by GET.
type PaymentResponse struct {
	PaymentID     string     `json:"paymentId"`
	OrderID       string     `json:"orderId"`
	UserID        string     `json:"userId"`
	Amount        float64    `json:"amount"`
	Currency      string     `json:"currency"`
	Fingerprint   string     `json:"fingerprint"`
	Status        string     `json:"status"`
	FailureReason *string    `json:"failureReason,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
}

// MapPaymentToResponse converts a domain payment to an API response.
func MapPaymentToResponse(payment *domain.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:     payment.ID.String(),
		OrderID:       payment.OrderID.String(),
		UserID:        payment.UserID,
		Amount:        payment.Amount,
		Currency:      payment.Currency,
		Fingerprint:   payment.Fingerprint,
		Status:        string(payment.Status),
		FailureReason: payment.FailureReason,
		CreatedAt:     payment.CreatedAt,
		UpdatedAt:     payment.UpdatedAt,
		CompletedAt:   payment.CompletedAt,
	}
}
