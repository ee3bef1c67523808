// Package http provides HTTP handlers for payment operations.
// Creation is idempotent: retries with the same Idempotency-Key replay the
// recorded outcome instead of charging twice.
package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/allisson/payments/internal/errors"
	"github.com/allisson/payments/internal/httputil"
	"github.com/allisson/payments/internal/payments/domain"
	"github.com/allisson/payments/internal/payments/http/dto"
	paymentsUseCase "github.com/allisson/payments/internal/payments/usecase"
	customValidation "github.com/allisson/payments/internal/validation"
)

// IdempotencyKeyHeader is the request header carrying the idempotency key.
const IdempotencyKeyHeader = "Idempotency-Key"

// PaymentHandler handles HTTP requests for payment operations.
type PaymentHandler struct {
	paymentUseCase paymentsUseCase.PaymentUseCase
	logger         *slog.Logger
}

// NewPaymentHandler creates a new payment handler with required dependencies.
func NewPaymentHandler(paymentUseCase paymentsUseCase.PaymentUseCase, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentUseCase: paymentUseCase,
		logger:         logger,
	}
}

// CreateHandler creates a payment idempotently.
// POST /payments - Requires the Idempotency-Key header (UUID).
// Returns 200 OK with the outcome, 202 Accepted with a Location header when a
// duplicate request is still in flight, or 409 Conflict for key reuse with
// different parameters and for already-paid orders.
func (h *PaymentHandler) CreateHandler(c *gin.Context) {
	rawKey := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	if rawKey == "" {
		c.JSON(http.StatusBadRequest, httputil.ErrorResponse{
			Error:   "MissingIdempotencyKey",
			Message: "The Idempotency-Key header is required",
		})
		return
	}

	if err := (customValidation.UUIDString{}).Validate(rawKey); err != nil {
		c.JSON(http.StatusBadRequest, httputil.ErrorResponse{
			Error:   "InvalidIdempotencyKey",
			Message: "The Idempotency-Key header must be a non-nil UUID",
		})
		return
	}
	key := uuid.MustParse(rawKey)

	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	input := paymentsUseCase.CreatePaymentInput{
		OrderID:     req.OrderID,
		UserID:      req.UserID,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Fingerprint: req.Fingerprint,
	}

	result, err := h.paymentUseCase.Create(c.Request.Context(), key, input)
	if err != nil {
		h.handleCreateError(c, err)
		return
	}

	if result.Resolution == domain.ResolutionInProgress {
		c.Header("Location", "/payments/"+result.OrderID.String())
		c.JSON(http.StatusAccepted, dto.MapResultToCreateResponse(result))
		return
	}

	c.JSON(http.StatusOK, dto.MapResultToCreateResponse(result))
}

// GetHandler retrieves the payment for an order.
// GET /payments/:orderId
// Returns 200 OK with the full payment projection or 404 Not Found.
func (h *PaymentHandler) GetHandler(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httputil.ErrorResponse{
			Error:   "InvalidOrderId",
			Message: "The order id must be a UUID",
		})
		return
	}

	payment, err := h.paymentUseCase.GetByOrderID(c.Request.Context(), orderID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapPaymentToResponse(payment))
}

// handleCreateError maps the create flow's conflict errors to their contract
// error codes before falling back to the generic mapping.
func (h *PaymentHandler) handleCreateError(c *gin.Context, err error) {
	switch {
	case apperrors.Is(err, domain.ErrIdempotencyKeyReuse):
		c.JSON(http.StatusConflict, httputil.ErrorResponse{
			Error:   "IdempotencyKeyReuseWithDifferentParameters",
			Message: "The idempotency key was already used with different request parameters",
		})
	case apperrors.Is(err, domain.ErrOrderAlreadyPaid):
		c.JSON(http.StatusConflict, httputil.ErrorResponse{
			Error:   "OrderAlreadyPaid",
			Message: "A payment already exists for this order",
		})
	case apperrors.Is(err, domain.ErrInvalidCurrency):
		httputil.HandleValidationErrorGin(c, err, h.logger)
	default:
		httputil.HandleErrorGin(c, err, h.logger)
	}
}
