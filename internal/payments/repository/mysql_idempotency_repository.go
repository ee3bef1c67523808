package repository

import (
	"context"
	"database/sql"

	"github.com/allisson/payments/internal/database"
	"github.com/allisson/payments/internal/errors"
	"github.com/allisson/payments/internal/payments/domain"
	"github.com/google/uuid"
)

// MySQLIdempotencyRepository handles idempotency record persistence for MySQL
type MySQLIdempotencyRepository struct {
	db *sql.DB
}

// NewMySQLIdempotencyRepository creates a new MySQLIdempotencyRepository
func NewMySQLIdempotencyRepository(db *sql.DB) *MySQLIdempotencyRepository {
	return &MySQLIdempotencyRepository{
		db: db,
	}
}

// Create claims the idempotency key by inserting a record keyed on it. A
// primary-key violation means another caller holds the claim and is reported
// as database.AlreadyExists.
func (r *MySQLIdempotencyRepository) Create(ctx context.Context, record *domain.IdempotencyRecord) (database.InsertResult, error) {
	querier := database.GetTx(ctx, r.db)

	query := "INSERT INTO payment_idempotency (`key`, request_hash, payment_id, status, result_status, result_error, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)"

	// Convert UUIDs to bytes for MySQL BINARY(16)
	keyBytes, err := record.Key.MarshalBinary()
	if err != nil {
		return 0, err
	}
	paymentIDBytes, err := record.PaymentID.MarshalBinary()
	if err != nil {
		return 0, err
	}

	_, err = querier.ExecContext(ctx, query, keyBytes, record.RequestHash, paymentIDBytes,
		record.Status, record.ResultStatus, record.ResultError, record.CreatedAt)

	return database.ClassifyInsert(err)
}

// GetByKey retrieves the idempotency record for a key
func (r *MySQLIdempotencyRepository) GetByKey(ctx context.Context, key uuid.UUID) (*domain.IdempotencyRecord, error) {
	querier := database.GetTx(ctx, r.db)

	query := "SELECT `key`, request_hash, payment_id, status, result_status, result_error, created_at FROM payment_idempotency WHERE `key` = ?"

	keyBytes, err := key.MarshalBinary()
	if err != nil {
		return nil, err
	}

	var record domain.IdempotencyRecord
	var scannedKeyBytes, paymentIDBytes []byte

	err = querier.QueryRowContext(ctx, query, keyBytes).Scan(&scannedKeyBytes, &record.RequestHash, &paymentIDBytes,
		&record.Status, &record.ResultStatus, &record.ResultError, &record.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrap(errors.ErrNotFound, "idempotency record not found")
		}
		return nil, err
	}

	// Convert bytes back to UUIDs
	if err := record.Key.UnmarshalBinary(scannedKeyBytes); err != nil {
		return nil, err
	}
	if err := record.PaymentID.UnmarshalBinary(paymentIDBytes); err != nil {
		return nil, err
	}

	return &record, nil
}

// Update records the outcome on an idempotency record
func (r *MySQLIdempotencyRepository) Update(ctx context.Context, record *domain.IdempotencyRecord) error {
	querier := database.GetTx(ctx, r.db)

	query := "UPDATE payment_idempotency SET status = ?, result_status = ?, result_error = ? WHERE `key` = ?"

	keyBytes, err := record.Key.MarshalBinary()
	if err != nil {
		return err
	}

	_, err = querier.ExecContext(ctx, query, record.Status, record.ResultStatus, record.ResultError, keyBytes)

	return err
}
