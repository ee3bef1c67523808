// Package repository provides data persistence implementations for outbox messages.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/allisson/payments/internal/database"
	"github.com/allisson/payments/internal/outbox/domain"
)

// PostgreSQLOutboxRepository handles outbox message persistence for PostgreSQL
type PostgreSQLOutboxRepository struct {
	db *sql.DB
}

// NewPostgreSQLOutboxRepository creates a new PostgreSQLOutboxRepository
func NewPostgreSQLOutboxRepository(db *sql.DB) *PostgreSQLOutboxRepository {
	return &PostgreSQLOutboxRepository{
		db: db,
	}
}

// Create inserts a new outbox message. Runs inside the caller's transaction
// when one is carried by the context, which is what makes the enqueue atomic
// with the business state change.
func (r *PostgreSQLOutboxRepository) Create(ctx context.Context, message *domain.OutboxMessage) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO outbox_messages (id, message_type, user_id, status, attempts, next_attempt_at, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(ctx, query, message.ID, message.Type, message.UserID,
		message.Status, message.Attempts, message.NextAttemptAt, message.CreatedAt)

	return err
}

// GetDue retrieves pending messages whose next attempt time has passed,
// oldest first, up to limit.
func (r *PostgreSQLOutboxRepository) GetDue(ctx context.Context, now time.Time, limit int) ([]*domain.OutboxMessage, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, message_type, user_id, status, attempts, next_attempt_at, created_at
			  FROM outbox_messages
			  WHERE status = $1 AND next_attempt_at <= $2
			  ORDER BY created_at ASC
			  LIMIT $3`

	rows, err := querier.QueryContext(ctx, query, domain.MessageStatusPending, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var messages []*domain.OutboxMessage
	for rows.Next() {
		var message domain.OutboxMessage

		err := rows.Scan(&message.ID, &message.Type, &message.UserID, &message.Status,
			&message.Attempts, &message.NextAttemptAt, &message.CreatedAt)
		if err != nil {
			return nil, err
		}

		messages = append(messages, &message)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}

// Update updates an outbox message's delivery state
func (r *PostgreSQLOutboxRepository) Update(ctx context.Context, message *domain.OutboxMessage) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE outbox_messages
			  SET status = $1, attempts = $2, next_attempt_at = $3
			  WHERE id = $4`

	_, err := querier.ExecContext(ctx, query, message.Status, message.Attempts, message.NextAttemptAt, message.ID)

	return err
}

// CountPending returns the number of pending messages, used to reconcile the
// backlog gauge after a restart.
func (r *PostgreSQLOutboxRepository) CountPending(ctx context.Context) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT COUNT(*) FROM outbox_messages WHERE status = $1`

	var count int64
	err := querier.QueryRowContext(ctx, query, domain.MessageStatusPending).Scan(&count)

	return count, err
}
