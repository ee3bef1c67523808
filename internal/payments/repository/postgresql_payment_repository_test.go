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

func newPayment() *domain.Payment {
	now := time.Now().UTC()
	return &domain.Payment{
		ID:          uuid.Must(uuid.NewV7()),
		OrderID:     uuid.Must(uuid.NewV7()),
		UserID:      "user-1",
		Amount:      100.50,
		Currency:    "RUB",
		Fingerprint: "fp-1",
		Status:      domain.PaymentStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestPostgreSQLPaymentRepository_Create(t *testing.T) {
	t.Run("inserted", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close() //nolint:errcheck

		payment := newPayment()
		mock.ExpectExec("INSERT INTO payments").
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewPostgreSQLPaymentRepository(db)
		result, err := repo.Create(context.Background(), payment)

		assert.NoError(t, err)
		assert.Equal(t, database.Inserted, result)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate order reported as already exists", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close() //nolint:errcheck

		mock.ExpectExec("INSERT INTO payments").
			WillReturnError(&pq.Error{Code: "23505", Constraint: "payments_order_id_key"})

		repo := NewPostgreSQLPaymentRepository(db)
		result, err := repo.Create(context.Background(), newPayment())

		assert.NoError(t, err)
		assert.Equal(t, database.AlreadyExists, result)
	})

	t.Run("other errors pass through", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close() //nolint:errcheck

		mock.ExpectExec("INSERT INTO payments").WillReturnError(assert.AnError)

		repo := NewPostgreSQLPaymentRepository(db)
		_, err = repo.Create(context.Background(), newPayment())

		assert.Error(t, err)
	})
}

func TestPostgreSQLPaymentRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	payment := newPayment()
	now := time.Now().UTC()
	reason := domain.FailureReasonCanceled
	payment.Status = domain.PaymentStatusFailed
	payment.FailureReason = &reason
	payment.CompletedAt = &now

	mock.ExpectExec("UPDATE payments").
		WithArgs(payment.Status, payment.FailureReason, payment.UpdatedAt, payment.CompletedAt, payment.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewPostgreSQLPaymentRepository(db)
	err = repo.Update(context.Background(), payment)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLPaymentRepository_GetByOrderID(t *testing.T) {
	columns := []string{
		"id", "order_id", "user_id", "amount", "currency", "fingerprint",
		"status", "failure_reason", "created_at", "updated_at", "completed_at",
	}

	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close() //nolint:errcheck

		payment := newPayment()
		rows := sqlmock.NewRows(columns).AddRow(
			payment.ID.String(), payment.OrderID.String(), payment.UserID, payment.Amount,
			payment.Currency, payment.Fingerprint, string(payment.Status), nil,
			payment.CreatedAt, payment.UpdatedAt, nil,
		)
		mock.ExpectQuery("SELECT (.+) FROM payments").
			WithArgs(payment.OrderID).
			WillReturnRows(rows)

		repo := NewPostgreSQLPaymentRepository(db)
		got, err := repo.GetByOrderID(context.Background(), payment.OrderID)

		require.NoError(t, err)
		assert.Equal(t, payment.ID, got.ID)
		assert.Equal(t, payment.OrderID, got.OrderID)
		assert.Equal(t, payment.Amount, got.Amount)
		assert.Equal(t, domain.PaymentStatusPending, got.Status)
		assert.Nil(t, got.FailureReason)
		assert.Nil(t, got.CompletedAt)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close() //nolint:errcheck

		mock.ExpectQuery("SELECT (.+) FROM payments").
			WillReturnRows(sqlmock.NewRows(columns))

		repo := NewPostgreSQLPaymentRepository(db)
		_, err = repo.GetByOrderID(context.Background(), uuid.Must(uuid.NewV7()))

		assert.ErrorIs(t, err, domain.ErrPaymentNotFound)
		assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	})
}
