package app

import (
	"fmt"

	"github.com/allisson/payments/internal/payments/repository"
	paymentsUsecase "github.com/allisson/payments/internal/payments/usecase"
)

// PaymentRepository returns the payment repository for the configured driver.
func (c *Container) PaymentRepository() (paymentsUsecase.PaymentRepository, error) {
	var err error
	c.paymentRepoInit.Do(func() {
		c.paymentRepo, err = c.initPaymentRepository()
		if err != nil {
			c.initErrors["paymentRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["paymentRepo"]; exists {
		return nil, storedErr
	}
	return c.paymentRepo, nil
}

// IdempotencyRepository returns the idempotency record repository for the configured driver.
func (c *Container) IdempotencyRepository() (paymentsUsecase.IdempotencyRepository, error) {
	var err error
	c.idempotencyRepoInit.Do(func() {
		c.idempotencyRepo, err = c.initIdempotencyRepository()
		if err != nil {
			c.initErrors["idempotencyRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["idempotencyRepo"]; exists {
		return nil, storedErr
	}
	return c.idempotencyRepo, nil
}

// PaymentUseCase returns the payment use case wrapped with metrics.
func (c *Container) PaymentUseCase() (paymentsUsecase.PaymentUseCase, error) {
	var err error
	c.paymentUseCaseInit.Do(func() {
		c.paymentUseCase, err = c.initPaymentUseCase()
		if err != nil {
			c.initErrors["paymentUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["paymentUseCase"]; exists {
		return nil, storedErr
	}
	return c.paymentUseCase, nil
}

func (c *Container) initPaymentRepository() (paymentsUsecase.PaymentRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for payment repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return repository.NewMySQLPaymentRepository(db), nil
	case "postgres":
		return repository.NewPostgreSQLPaymentRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initIdempotencyRepository() (paymentsUsecase.IdempotencyRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for idempotency repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return repository.NewMySQLIdempotencyRepository(db), nil
	case "postgres":
		return repository.NewPostgreSQLIdempotencyRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initPaymentUseCase() (paymentsUsecase.PaymentUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for payment use case: %w", err)
	}

	paymentRepo, err := c.PaymentRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get payment repository for payment use case: %w", err)
	}

	idempotencyRepo, err := c.IdempotencyRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get idempotency repository for payment use case: %w", err)
	}

	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for payment use case: %w", err)
	}

	resilienceMetrics, err := c.ResilienceMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get resilience metrics for payment use case: %w", err)
	}

	useCase := paymentsUsecase.NewPaymentUseCase(
		txManager,
		paymentRepo,
		idempotencyRepo,
		outboxRepo,
		resilienceMetrics,
		c.config.PaymentProcessingDelay,
		c.config.PaymentFinalizeTimeout,
	)

	return paymentsUsecase.NewPaymentUseCaseWithMetrics(useCase, resilienceMetrics), nil
}
