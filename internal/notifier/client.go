// Package notifier delivers outbox notifications to the downstream
// notification service over HTTP, guarded by a circuit breaker.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/sony/gobreaker/v2"

	"github.com/allisson/payments/internal/config"
	"github.com/allisson/payments/internal/errors"
	outboxDomain "github.com/allisson/payments/internal/outbox/domain"
)

// DependencyName identifies the downstream service in logs and metrics.
const DependencyName = "notificationservice"

// DeliveryResult classifies a delivery attempt. The dispatcher branches on
// the variant instead of inspecting errors.
type DeliveryResult int

const (
	// Delivered means the notification service accepted the message.
	Delivered DeliveryResult = iota + 1
	// CircuitOpen means the breaker rejected the call without sending it.
	CircuitOpen
	// TransientFailure means the send was attempted and failed; retrying later
	// may succeed.
	TransientFailure
)

// Notifier defines the delivery interface used by the outbox dispatcher.
type Notifier interface {
	Deliver(ctx context.Context, messageType outboxDomain.MessageType, userID string) (DeliveryResult, error)
}

// deliverRequest is the wire payload of the delivery endpoint.
type deliverRequest struct {
	Type string `json:"type"`
}

// Client is the HTTP implementation of Notifier.
type Client struct {
	httpClient *http.Client
	baseURL    string
	breaker    *gobreaker.CircuitBreaker[struct{}]
	logger     *slog.Logger
}

// NewClient creates a new notification service client. The breaker opens when
// the failure ratio over the sampling interval reaches the configured
// threshold with at least the minimum number of requests observed.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	settings := gobreaker.Settings{
		Name:     DependencyName,
		Interval: cfg.BreakerInterval,
		Timeout:  cfg.BreakerOpenDuration,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.BreakerMinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.BreakerFailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("circuit breaker state change",
				slog.String("dependency", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.NotifierTimeout},
		baseURL:    cfg.NotifierBaseURL,
		breaker:    gobreaker.NewCircuitBreaker[struct{}](settings),
		logger:     logger,
	}
}

// Deliver sends the notification through the circuit breaker.
func (c *Client) Deliver(
	ctx context.Context,
	messageType outboxDomain.MessageType,
	userID string,
) (DeliveryResult, error) {
	_, err := c.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, c.send(ctx, messageType, userID)
	})
	if err == nil {
		return Delivered, nil
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return CircuitOpen, errors.Wrap(errors.ErrDependencyUnavailable, DependencyName)
	}

	return TransientFailure, err
}

// send performs the HTTP call to the delivery endpoint.
func (c *Client) send(ctx context.Context, messageType outboxDomain.MessageType, userID string) error {
	body, err := json.Marshal(deliverRequest{Type: wireType(messageType)})
	if err != nil {
		return err
	}

	url := c.baseURL + "/notifications/deliver"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", userID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notification delivery returned status %d", resp.StatusCode)
	}

	return nil
}

// wireType maps internal message types to the notification service's type names.
func wireType(messageType outboxDomain.MessageType) string {
	switch messageType {
	case outboxDomain.MessageTypeMagicLink:
		return "magic-link"
	case outboxDomain.MessageTypeReceipt:
		return "receipt"
	default:
		return string(messageType)
	}
}
