// Package http provides the API server, routing, and shared middleware.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/payments/internal/config"
	outboxHTTP "github.com/allisson/payments/internal/outbox/http"
	paymentsHTTP "github.com/allisson/payments/internal/payments/http"
)

// Server represents the API HTTP server.
type Server struct {
	server           *http.Server
	config           *config.Config
	db               *sql.DB
	logger           *slog.Logger
	paymentHandler   *paymentsHTTP.PaymentHandler
	magicLinkHandler *outboxHTTP.MagicLinkHandler
}

// NewServer creates a new API server with all route handlers wired in.
func NewServer(
	cfg *config.Config,
	db *sql.DB,
	logger *slog.Logger,
	paymentHandler *paymentsHTTP.PaymentHandler,
	magicLinkHandler *outboxHTTP.MagicLinkHandler,
) *Server {
	s := &Server{
		config:           cfg,
		db:               db,
		logger:           logger,
		paymentHandler:   paymentHandler,
		magicLinkHandler: magicLinkHandler,
	}

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:      s.setupRouter(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRouter builds the gin engine with middleware and routes.
func (s *Server) setupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(s.config.CORSEnabled, s.config.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	payments := router.Group("/payments")
	if s.config.RateLimitEnabled {
		payments.Use(RateLimitMiddleware(s.config.RateLimitRequestsPerSec, s.config.RateLimitBurst, s.logger))
	}
	payments.POST("", s.paymentHandler.CreateHandler)
	payments.GET("/:orderId", s.paymentHandler.GetHandler)

	router.POST("/magic-links", s.magicLinkHandler.CreateHandler)

	return router
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports readiness including database connectivity.
func (s *Server) readinessHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	components := gin.H{"database": "ok"}
	status := "ready"
	statusCode := http.StatusOK

	if err := s.db.PingContext(ctx); err != nil {
		components["database"] = "error"
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, gin.H{
		"status":     status,
		"components": components,
	})
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the API server.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
