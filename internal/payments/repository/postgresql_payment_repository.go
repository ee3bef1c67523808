// Package repository provides data persistence implementations for payment entities.
package repository

import (
	"context"
	"database/sql"

	"github.com/allisson/payments/internal/database"
	"github.com/allisson/payments/internal/errors"
	"github.com/allisson/payments/internal/payments/domain"
	"github.com/google/uuid"
)

// PostgreSQLPaymentRepository handles payment persistence for PostgreSQL
type PostgreSQLPaymentRepository struct {
	db *sql.DB
}

// NewPostgreSQLPaymentRepository creates a new PostgreSQLPaymentRepository
func NewPostgreSQLPaymentRepository(db *sql.DB) *PostgreSQLPaymentRepository {
	return &PostgreSQLPaymentRepository{
		db: db,
	}
}

// Create inserts a new payment. A unique-constraint violation on order_id is
// reported as database.AlreadyExists rather than an error, so the caller can
// branch on the duplicate-order case.
func (r *PostgreSQLPaymentRepository) Create(ctx context.Context, payment *domain.Payment) (database.InsertResult, error) {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO payments (id, order_id, user_id, amount, currency, fingerprint, status, failure_reason, created_at, updated_at, completed_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := querier.ExecContext(ctx, query, payment.ID, payment.OrderID, payment.UserID, payment.Amount,
		payment.Currency, payment.Fingerprint, payment.Status, payment.FailureReason,
		payment.CreatedAt, payment.UpdatedAt, payment.CompletedAt)

	return database.ClassifyInsert(err)
}

// Update updates a payment's mutable fields
func (r *PostgreSQLPaymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE payments
			  SET status = $1, failure_reason = $2, updated_at = $3, completed_at = $4
			  WHERE id = $5`

	_, err := querier.ExecContext(ctx, query, payment.Status, payment.FailureReason,
		payment.UpdatedAt, payment.CompletedAt, payment.ID)

	return err
}

// GetByOrderID retrieves the payment for an order
func (r *PostgreSQLPaymentRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*domain.Payment, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, order_id, user_id, amount, currency, fingerprint, status, failure_reason, created_at, updated_at, completed_at
			  FROM payments
			  WHERE order_id = $1`

	var payment domain.Payment

	err := querier.QueryRowContext(ctx, query, orderID).Scan(&payment.ID, &payment.OrderID, &payment.UserID,
		&payment.Amount, &payment.Currency, &payment.Fingerprint, &payment.Status, &payment.FailureReason,
		&payment.CreatedAt, &payment.UpdatedAt, &payment.CompletedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}

	return &payment, nil
}
