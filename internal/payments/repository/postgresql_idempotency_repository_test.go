package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/payments/internal/database"
	apperrors "github.com/allisson/payments/internal/errors"
	"github.com/allisson/payments/internal/payments/domain"
)

func newIdempotencyRecord() *domain.IdempotencyRecord {
	return &domain.IdempotencyRecord{
		Key:         uuid.Must(uuid.NewV7()),
		RequestHash: "deadbeef",
		PaymentID:   uuid.Must(uuid.NewV7()),
		Status:      domain.IdempotencyStatusInProgress,
		CreatedAt:   time.Now().UTC(),
	}
}

func TestPostgreSQLIdempotencyRepository_Create(t *testing.T) {
	t.Run("claim won", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close() //nolint:errcheck

		mock.ExpectExec("INSERT INTO payment_idempotency").
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewPostgreSQLIdempotencyRepository(db)
		result, err := repo.Create(context.Background(), newIdempotencyRecord())

		assert.NoError(t, err)
		assert.Equal(t, database.Inserted, result)
	})

	t.Run("claim lost to existing record", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close() //nolint:errcheck

		mock.ExpectExec("INSERT INTO payment_idempotency").
			WillReturnError(&pq.Error{Code: "23505", Constraint: "payment_idempotency_pkey"})

		repo := NewPostgreSQLIdempotencyRepository(db)
		result, err := repo.Create(context.Background(), newIdempotencyRecord())

		assert.NoError(t, err)
		assert.Equal(t, database.AlreadyExists, result)
	})
}

func TestPostgreSQLIdempotencyRepository_GetByKey(t *testing.T) {
	columns := []string{"key", "request_hash", "payment_id", "status", "result_status", "result_error", "created_at"}

	t.Run("found with recorded outcome", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close() //nolint:errcheck

		record := newIdempotencyRecord()
		rows := sqlmock.NewRows(columns).AddRow(
			record.Key.String(), record.RequestHash, record.PaymentID.String(),
			string(domain.IdempotencyStatusCompleted), string(domain.PaymentStatusCompleted), nil,
			record.CreatedAt,
		)
		mock.ExpectQuery("SELECT (.+) FROM payment_idempotency").
			WithArgs(record.Key).
			WillReturnRows(rows)

		repo := NewPostgreSQLIdempotencyRepository(db)
		got, err := repo.GetByKey(context.Background(), record.Key)

		require.NoError(t, err)
		assert.Equal(t, record.Key, got.Key)
		assert.Equal(t, record.PaymentID, got.PaymentID)
		assert.Equal(t, domain.IdempotencyStatusCompleted, got.Status)
		require.NotNil(t, got.ResultStatus)
		assert.Equal(t, domain.PaymentStatusCompleted, *got.ResultStatus)
		assert.Nil(t, got.ResultError)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close() //nolint:errcheck

		mock.ExpectQuery("SELECT (.+) FROM payment_idempotency").
			WillReturnRows(sqlmock.NewRows(columns))

		repo := NewPostgreSQLIdempotencyRepository(db)
		_, err = repo.GetByKey(context.Background(), uuid.Must(uuid.NewV7()))

		assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	})
}

func TestPostgreSQLIdempotencyRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	record := newIdempotencyRecord()
	status := domain.PaymentStatusCompleted
	record.Status = domain.IdempotencyStatusCompleted
	record.ResultStatus = &status

	mock.ExpectExec("UPDATE payment_idempotency").
		WithArgs(record.Status, record.ResultStatus, record.ResultError, record.Key).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewPostgreSQLIdempotencyRepository(db)
	err = repo.Update(context.Background(), record)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
