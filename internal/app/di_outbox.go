package app

import (
	"fmt"

	"github.com/allisson/payments/internal/notifier"
	"github.com/allisson/payments/internal/outbox/repository"
	outboxUsecase "github.com/allisson/payments/internal/outbox/usecase"
)

// OutboxRepository returns the outbox message repository for the configured driver.
func (c *Container) OutboxRepository() (outboxUsecase.OutboxMessageRepository, error) {
	var err error
	c.outboxRepoInit.Do(func() {
		c.outboxRepo, err = c.initOutboxRepository()
		if err != nil {
			c.initErrors["outboxRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["outboxRepo"]; exists {
		return nil, storedErr
	}
	return c.outboxRepo, nil
}

// EnqueueUseCase returns the outbox enqueue use case.
func (c *Container) EnqueueUseCase() (outboxUsecase.EnqueueUseCase, error) {
	var err error
	c.enqueueUseCaseInit.Do(func() {
		c.enqueueUseCase, err = c.initEnqueueUseCase()
		if err != nil {
			c.initErrors["enqueueUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["enqueueUseCase"]; exists {
		return nil, storedErr
	}
	return c.enqueueUseCase, nil
}

// Notifier returns the notification service client.
func (c *Container) Notifier() (notifier.Notifier, error) {
	c.notifierInit.Do(func() {
		c.notifierClient = notifier.NewClient(c.config, c.Logger())
	})
	return c.notifierClient, nil
}

// Dispatcher returns the background outbox dispatcher.
func (c *Container) Dispatcher() (*outboxUsecase.Dispatcher, error) {
	var err error
	c.dispatcherInit.Do(func() {
		c.dispatcher, err = c.initDispatcher()
		if err != nil {
			c.initErrors["dispatcher"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["dispatcher"]; exists {
		return nil, storedErr
	}
	return c.dispatcher, nil
}

func (c *Container) initOutboxRepository() (outboxUsecase.OutboxMessageRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for outbox repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return repository.NewMySQLOutboxRepository(db), nil
	case "postgres":
		return repository.NewPostgreSQLOutboxRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initEnqueueUseCase() (outboxUsecase.EnqueueUseCase, error) {
	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for enqueue use case: %w", err)
	}

	resilienceMetrics, err := c.ResilienceMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get resilience metrics for enqueue use case: %w", err)
	}

	return outboxUsecase.NewEnqueueUseCase(outboxRepo, resilienceMetrics), nil
}

func (c *Container) initDispatcher() (*outboxUsecase.Dispatcher, error) {
	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for dispatcher: %w", err)
	}

	notifierClient, err := c.Notifier()
	if err != nil {
		return nil, fmt.Errorf("failed to get notifier for dispatcher: %w", err)
	}

	resilienceMetrics, err := c.ResilienceMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get resilience metrics for dispatcher: %w", err)
	}

	dispatcherConfig := outboxUsecase.DispatcherConfig{
		BatchSize:    c.config.OutboxBatchSize,
		PollInterval: c.config.OutboxPollInterval,
		MaxAttempts:  c.config.OutboxMaxAttempts,
		BackoffBase:  c.config.OutboxBackoffBase,
		BackoffCap:   c.config.OutboxBackoffCap,
	}

	return outboxUsecase.NewDispatcher(dispatcherConfig, outboxRepo, notifierClient, resilienceMetrics, c.Logger()), nil
}
