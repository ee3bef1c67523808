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

// MySQLPaymentRepository handles payment persistence for MySQL
type MySQLPaymentRepository struct {
	db *sql.DB
}

// NewMySQLPaymentRepository creates a new MySQLPaymentRepository
func NewMySQLPaymentRepository(db *sql.DB) *MySQLPaymentRepository {
	return &MySQLPaymentRepository{
		db: db,
	}
}

// Create inserts a new payment. A unique-constraint violation on order_id is
// reported as database.AlreadyExists rather than an error.
func (r *MySQLPaymentRepository) Create(ctx context.Context, payment *domain.Payment) (database.InsertResult, error) {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO payments (id, order_id, user_id, amount, currency, fingerprint, status, failure_reason, created_at, updated_at, completed_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	// Convert UUIDs to bytes for MySQL BINARY(16)
	idBytes, err := payment.ID.MarshalBinary()
	if err != nil {
		return 0, err
	}
	orderIDBytes, err := payment.OrderID.MarshalBinary()
	if err != nil {
		return 0, err
	}

	_, err = querier.ExecContext(ctx, query, idBytes, orderIDBytes, payment.UserID, payment.Amount,
		payment.Currency, payment.Fingerprint, payment.Status, payment.FailureReason,
		payment.CreatedAt, payment.UpdatedAt, payment.CompletedAt)

	return database.ClassifyInsert(err)
}

// Update updates a payment's mutable fields
func (r *MySQLPaymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE payments
			  SET status = ?, failure_reason = ?, updated_at = ?, completed_at = ?
			  WHERE id = ?`

	idBytes, err := payment.ID.MarshalBinary()
	if err != nil {
		return err
	}

	_, err = querier.ExecContext(ctx, query, payment.Status, payment.FailureReason,
		payment.UpdatedAt, payment.CompletedAt, idBytes)

	return err
}

// GetByOrderID retrieves the payment for an order
func (r *MySQLPaymentRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*domain.Payment, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, order_id, user_id, amount, currency, fingerprint, status, failure_reason, created_at, updated_at, completed_at
			  FROM payments
			  WHERE order_id = ?`

	orderIDBytes, err := orderID.MarshalBinary()
	if err != nil {
		return nil, err
	}

	var payment domain.Payment
	var idBytes, scannedOrderIDBytes []byte

	err = querier.QueryRowContext(ctx, query, orderIDBytes).Scan(&idBytes, &scannedOrderIDBytes, &payment.UserID,
		&payment.Amount, &payment.Currency, &payment.Fingerprint, &payment.Status, &payment.FailureReason,
		&payment.CreatedAt, &payment.UpdatedAt, &payment.CompletedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}

	// Convert bytes back to UUIDs
	if err := payment.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, err
	}
	if err := payment.OrderID.UnmarshalBinary(scannedOrderIDBytes); err != nil {
		return nil, err
	}

	return &payment, nil
}
