// Package commands contains CLI command implementations for the application.
package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"

	"github.com/allisson/payments/internal/app"
)

// shutdownTimeout bounds how long graceful shutdown may take before the
// process gives up on in-flight requests.
const shutdownTimeout = 30 * time.Second

// closeContainer closes all resources in the container and logs any errors.
func closeContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}

// closeMigrate closes the migration instance and logs any errors.
func closeMigrate(migrate *migrate.Migrate, logger *slog.Logger) {
	sourceError, databaseError := migrate.Close()
	if sourceError != nil || databaseError != nil {
		logger.Error(
			"failed to close the migrate",
			slog.Any("source_error", sourceError),
			slog.Any("database_error", databaseError),
		)
	}
}
