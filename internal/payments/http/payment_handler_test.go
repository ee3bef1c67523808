package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/payments/internal/payments/domain"
	"github.com/allisson/payments/internal/payments/usecase"
	usecaseMocks "github.com/allisson/payments/internal/payments/usecase/mocks"
)

func setupRouter(handler *PaymentHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/payments", handler.CreateHandler)
	router.GET("/payments/:orderId", handler.GetHandler)
	return router
}

func testHandlerLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func validBody(orderID uuid.UUID) []byte {
	body, _ := json.Marshal(map[string]any{
		"orderId":     orderID.String(),
		"userId":      "user-1",
		"amount":      100.50,
		"currency":    "RUB",
		"fingerprint": "fp-1",
	})
	return body
}

func TestPaymentHandler_CreateHandler(t *testing.T) {
	t.Run("fresh outcome returns 200", func(t *testing.T) {
		mockUseCase := &usecaseMocks.MockPaymentUseCase{}
		handler := NewPaymentHandler(mockUseCase, testHandlerLogger())
		router := setupRouter(handler)

		key := uuid.Must(uuid.NewV7())
		orderID := uuid.Must(uuid.NewV7())
		paymentID := uuid.Must(uuid.NewV7())

		mockUseCase.On("Create", mock.Anything, key, mock.AnythingOfType("usecase.CreatePaymentInput")).
			Return(&usecase.CreatePaymentResult{
				PaymentID:  paymentID,
				OrderID:    orderID,
				Status:     domain.PaymentStatusCompleted,
				Resolution: domain.ResolutionMiss,
			}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/payments", bytes.NewReader(validBody(orderID)))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(IdempotencyKeyHeader, key.String())

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)

		var response map[string]any
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, paymentID.String(), response["paymentId"])
		assert.Equal(t, "Completed", response["status"])
		assert.NotContains(t, response, "error")
	})

	t.Run("in-flight duplicate returns 202 with location", func(t *testing.T) {
		mockUseCase := &usecaseMocks.MockPaymentUseCase{}
		handler := NewPaymentHandler(mockUseCase, testHandlerLogger())
		router := setupRouter(handler)

		key := uuid.Must(uuid.NewV7())
		orderID := uuid.Must(uuid.NewV7())

		mockUseCase.On("Create", mock.Anything, key, mock.Anything).
			Return(&usecase.CreatePaymentResult{
				PaymentID:  uuid.Must(uuid.NewV7()),
				OrderID:    orderID,
				Status:     domain.PaymentStatusPending,
				Resolution: domain.ResolutionInProgress,
			}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/payments", bytes.NewReader(validBody(orderID)))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(IdempotencyKeyHeader, key.String())

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusAccepted, recorder.Code)
		assert.Equal(t, "/payments/"+orderID.String(), recorder.Header().Get("Location"))

		var response map[string]any
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, "Pending", response["status"])
	})

	t.Run("key reuse with different parameters returns 409", func(t *testing.T) {
		mockUseCase := &usecaseMocks.MockPaymentUseCase{}
		handler := NewPaymentHandler(mockUseCase, testHandlerLogger())
		router := setupRouter(handler)

		key := uuid.Must(uuid.NewV7())
		mockUseCase.On("Create", mock.Anything, key, mock.Anything).
			Return(nil, domain.ErrIdempotencyKeyReuse).Once()

		req := httptest.NewRequest(http.MethodPost, "/payments", bytes.NewReader(validBody(uuid.Must(uuid.NewV7()))))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(IdempotencyKeyHeader, key.String())

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusConflict, recorder.Code)

		var response map[string]any
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, "IdempotencyKeyReuseWithDifferentParameters", response["error"])
	})

	t.Run("already paid order returns 409", func(t *testing.T) {
		mockUseCase := &usecaseMocks.MockPaymentUseCase{}
		handler := NewPaymentHandler(mockUseCase, testHandlerLogger())
		router := setupRouter(handler)

		key := uuid.Must(uuid.NewV7())
		mockUseCase.On("Create", mock.Anything, key, mock.Anything).
			Return(nil, domain.ErrOrderAlreadyPaid).Once()

		req := httptest.NewRequest(http.MethodPost, "/payments", bytes.NewReader(validBody(uuid.Must(uuid.NewV7()))))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(IdempotencyKeyHeader, key.String())

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusConflict, recorder.Code)

		var response map[string]any
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, "OrderAlreadyPaid", response["error"])
	})

	t.Run("missing idempotency key returns 400", func(t *testing.T) {
		mockUseCase := &usecaseMocks.MockPaymentUseCase{}
		handler := NewPaymentHandler(mockUseCase, testHandlerLogger())
		router := setupRouter(handler)

		req := httptest.NewRequest(http.MethodPost, "/payments", bytes.NewReader(validBody(uuid.Must(uuid.NewV7()))))
		req.Header.Set("Content-Type", "application/json")

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)

		var response map[string]any
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, "MissingIdempotencyKey", response["error"])
		mockUseCase.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("malformed idempotency key returns 400", func(t *testing.T) {
		mockUseCase := &usecaseMocks.MockPaymentUseCase{}
		handler := NewPaymentHandler(mockUseCase, testHandlerLogger())
		router := setupRouter(handler)

		req := httptest.NewRequest(http.MethodPost, "/payments", bytes.NewReader(validBody(uuid.Must(uuid.NewV7()))))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(IdempotencyKeyHeader, "not-a-uuid")

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)

		var response map[string]any
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, "InvalidIdempotencyKey", response["error"])
	})

	t.Run("nil idempotency key returns 400", func(t *testing.T) {
		mockUseCase := &usecaseMocks.MockPaymentUseCase{}
		handler := NewPaymentHandler(mockUseCase, testHandlerLogger())
		router := setupRouter(handler)

		req := httptest.NewRequest(http.MethodPost, "/payments", bytes.NewReader(validBody(uuid.Must(uuid.NewV7()))))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(IdempotencyKeyHeader, uuid.Nil.String())

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)

		var response map[string]any
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, "InvalidIdempotencyKey", response["error"])
		mockUseCase.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid currency returns 400", func(t *testing.T) {
		mockUseCase := &usecaseMocks.MockPaymentUseCase{}
		handler := NewPaymentHandler(mockUseCase, testHandlerLogger())
		router := setupRouter(handler)

		body, _ := json.Marshal(map[string]any{
			"orderId":     uuid.Must(uuid.NewV7()).String(),
			"userId":      "user-1",
			"amount":      100.50,
			"currency":    "RUBLES",
			"fingerprint": "fp-1",
		})

		req := httptest.NewRequest(http.MethodPost, "/payments", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(IdempotencyKeyHeader, uuid.Must(uuid.NewV7()).String())

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockUseCase.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("replayed failed outcome includes the error", func(t *testing.T) {
		mockUseCase := &usecaseMocks.MockPaymentUseCase{}
		handler := NewPaymentHandler(mockUseCase, testHandlerLogger())
		router := setupRouter(handler)

		key := uuid.Must(uuid.NewV7())
		orderID := uuid.Must(uuid.NewV7())
		reason := domain.FailureReasonCanceled

		mockUseCase.On("Create", mock.Anything, key, mock.Anything).
			Return(&usecase.CreatePaymentResult{
				PaymentID:     uuid.Must(uuid.NewV7()),
				OrderID:       orderID,
				Status:        domain.PaymentStatusFailed,
				FailureReason: &reason,
				Resolution:    domain.ResolutionHit,
			}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/payments", bytes.NewReader(validBody(orderID)))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(IdempotencyKeyHeader, key.String())

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)

		var response map[string]any
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, "Failed", response["status"])
		assert.Equal(t, "Canceled", response["error"])
	})
}

func TestPaymentHandler_GetHandler(t *testing.T) {
	t.Run("returns the full payment projection", func(t *testing.T) {
		mockUseCase := &usecaseMocks.MockPaymentUseCase{}
		handler := NewPaymentHandler(mockUseCase, testHandlerLogger())
		router := setupRouter(handler)

		orderID := uuid.Must(uuid.NewV7())
		now := time.Now().UTC()
		payment := &domain.Payment{
			ID:          uuid.Must(uuid.NewV7()),
			OrderID:     orderID,
			UserID:      "user-1",
			Amount:      100.50,
			Currency:    "RUB",
			Fingerprint: "fp-1",
			Status:      domain.PaymentStatusCompleted,
			CreatedAt:   now,
			UpdatedAt:   now,
			CompletedAt: &now,
		}

		mockUseCase.On("GetByOrderID", mock.Anything, orderID).Return(payment, nil).Once()

		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/payments/%s", orderID), nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)

		var response map[string]any
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, payment.ID.String(), response["paymentId"])
		assert.Equal(t, orderID.String(), response["orderId"])
		assert.Equal(t, "user-1", response["userId"])
		assert.Equal(t, 100.50, response["amount"])
		assert.Equal(t, "RUB", response["currency"])
		assert.Equal(t, "Completed", response["status"])
		assert.NotContains(t, response, "failureReason")
	})

	t.Run("unknown order returns 404", func(t *testing.T) {
		mockUseCase := &usecaseMocks.MockPaymentUseCase{}
		handler := NewPaymentHandler(mockUseCase, testHandlerLogger())
		router := setupRouter(handler)

		orderID := uuid.Must(uuid.NewV7())
		mockUseCase.On("GetByOrderID", mock.Anything, orderID).
			Return(nil, domain.ErrPaymentNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/payments/%s", orderID), nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("malformed order id returns 400", func(t *testing.T) {
		mockUseCase := &usecaseMocks.MockPaymentUseCase{}
		handler := NewPaymentHandler(mockUseCase, testHandlerLogger())
		router := setupRouter(handler)

		req := httptest.NewRequest(http.MethodGet, "/payments/not-a-uuid", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}
