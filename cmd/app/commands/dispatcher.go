package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/allisson/payments/internal/app"
	"github.com/allisson/payments/internal/config"
)

// RunDispatcher starts the outbox dispatcher as a standalone worker, without
// the HTTP servers. Useful when the dispatcher is scaled separately from the
// API. Blocks until receiving SIGINT/SIGTERM.
func RunDispatcher(ctx context.Context) error {
	cfg := config.Load()

	container := app.NewContainer(cfg)

	logger := container.Logger()
	logger.Info("starting outbox dispatcher worker")

	defer closeContainer(container, logger)

	dispatcher, err := container.Dispatcher()
	if err != nil {
		return fmt.Errorf("failed to initialize outbox dispatcher: %w", err)
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := dispatcher.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("outbox dispatcher error: %w", err)
	}

	logger.Info("outbox dispatcher stopped", slog.String("reason", "shutdown signal"))
	return nil
}
