package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/payments/internal/outbox/domain"
	usecaseMocks "github.com/allisson/payments/internal/outbox/usecase/mocks"
)

func setupRouter(handler *MagicLinkHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/magic-links", handler.CreateHandler)
	return router
}

func TestMagicLinkHandler_CreateHandler(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	t.Run("enqueues and returns 202", func(t *testing.T) {
		mockUseCase := &usecaseMocks.MockEnqueueUseCase{}
		router := setupRouter(NewMagicLinkHandler(mockUseCase, logger))

		messageID := uuid.Must(uuid.NewV7())
		mockUseCase.On("Enqueue", mock.Anything, domain.MessageTypeMagicLink, "user-1").
			Return(messageID, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/magic-links", nil)
		req.Header.Set(UserIDHeader, "user-1")

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusAccepted, recorder.Code)

		var response MagicLinkResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, messageID.String(), response.MessageID)
		assert.Equal(t, "queued", response.Status)
	})

	t.Run("missing user header returns 400", func(t *testing.T) {
		mockUseCase := &usecaseMocks.MockEnqueueUseCase{}
		router := setupRouter(NewMagicLinkHandler(mockUseCase, logger))

		req := httptest.NewRequest(http.MethodPost, "/magic-links", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockUseCase.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("enqueue error returns 500", func(t *testing.T) {
		mockUseCase := &usecaseMocks.MockEnqueueUseCase{}
		router := setupRouter(NewMagicLinkHandler(mockUseCase, logger))

		mockUseCase.On("Enqueue", mock.Anything, domain.MessageTypeMagicLink, "user-1").
			Return(uuid.Nil, assert.AnError).Once()

		req := httptest.NewRequest(http.MethodPost, "/magic-links", nil)
		req.Header.Set(UserIDHeader, "user-1")

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	})
}
