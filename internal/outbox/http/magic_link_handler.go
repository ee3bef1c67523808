// Package http provides HTTP handlers for enqueueing notifications.
package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/allisson/payments/internal/httputil"
	"github.com/allisson/payments/internal/outbox/domain"
	outboxUseCase "github.com/allisson/payments/internal/outbox/usecase"
)

// UserIDHeader is the request header carrying the authenticated user reference.
const UserIDHeader = "X-User-Id"

// MagicLinkResponse acknowledges an enqueued magic link.
type MagicLinkResponse struct {
	MessageID string `json:"messageId"`
	Status    string `json:"status"`
}

// MagicLinkHandler handles HTTP requests for magic link notifications.
type MagicLinkHandler struct {
	enqueueUseCase outboxUseCase.EnqueueUseCase
	logger         *slog.Logger
}

// NewMagicLinkHandler creates a new magic link handler.
func NewMagicLinkHandler(enqueueUseCase outboxUseCase.EnqueueUseCase, logger *slog.Logger) *MagicLinkHandler {
	return &MagicLinkHandler{
		enqueueUseCase: enqueueUseCase,
		logger:         logger,
	}
}

// CreateHandler enqueues a magic link notification for the user.
// POST /magic-links - Requires the X-User-Id header.
// Returns 202 Accepted: delivery happens asynchronously via the outbox.
func (h *MagicLinkHandler) CreateHandler(c *gin.Context) {
	userID := strings.TrimSpace(c.GetHeader(UserIDHeader))
	if userID == "" {
		c.JSON(http.StatusBadRequest, httputil.ErrorResponse{
			Error:   "MissingUserId",
			Message: "The X-User-Id header is required",
		})
		return
	}

	messageID, err := h.enqueueUseCase.Enqueue(c.Request.Context(), domain.MessageTypeMagicLink, userID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusAccepted, MagicLinkResponse{
		MessageID: messageID.String(),
		Status:    "queued",
	})
}
