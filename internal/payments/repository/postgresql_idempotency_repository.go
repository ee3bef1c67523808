package repository

import (
	"context"
	"database/sql"

	"github.com/allisson/payments/internal/database"
	"github.com/allisson/payments/internal/errors"
	"github.com/allisson/payments/internal/payments/domain"
	"github.com/google/uuid"
)

// PostgreSQLIdempotencyRepository handles idempotency record persistence for PostgreSQL
type PostgreSQLIdempotencyRepository struct {
	db *sql.DB
}

// NewPostgreSQLIdempotencyRepository creates a new PostgreSQLIdempotencyRepository
func NewPostgreSQLIdempotencyRepository(db *sql.DB) *PostgreSQLIdempotencyRepository {
	return &PostgreSQLIdempotencyRepository{
		db: db,
	}
}

// Create claims the idempotency key by inserting a record keyed on it. A
// primary-key violation means another caller holds the claim and is reported
// as database.AlreadyExists.
func (r *PostgreSQLIdempotencyRepository) Create(ctx context.Context, record *domain.IdempotencyRecord) (database.InsertResult, error) {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO payment_idempotency (key, request_hash, payment_id, status, result_status, result_error, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(ctx, query, record.Key, record.RequestHash, record.PaymentID,
		record.Status, record.ResultStatus, record.ResultError, record.CreatedAt)

	return database.ClassifyInsert(err)
}

// GetByKey retrieves the idempotency record for a key
func (r *PostgreSQLIdempotencyRepository) GetByKey(ctx context.Context, key uuid.UUID) (*domain.IdempotencyRecord, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT key, request_hash, payment_id, status, result_status, result_error, created_at
			  FROM payment_idempotency
			  WHERE key = $1`

	var record domain.IdempotencyRecord

	err := querier.QueryRowContext(ctx, query, key).Scan(&record.Key, &record.RequestHash, &record.PaymentID,
		&record.Status, &record.ResultStatus, &record.ResultError, &record.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrap(errors.ErrNotFound, "idempotency record not found")
		}
		return nil, err
	}

	return &record, nil
}

// Update records the outcome on an idempotency record
func (r *PostgreSQLIdempotencyRepository) Update(ctx context.Context, record *domain.IdempotencyRecord) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE payment_idempotency
			  SET status = $1, result_status = $2, result_error = $3
			  WHERE key = $4`

	_, err := querier.ExecContext(ctx, query, record.Status, record.ResultStatus, record.ResultError, record.Key)

	return err
}
