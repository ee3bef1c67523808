// Package repository provides data persistence implementations for outbox messages.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/allisson/payments/internal/database"
	"github.com/allisson/payments/internal/outbox/domain"
)

// MySQLOutboxRepository handles outbox message persistence for MySQL
type MySQLOutboxRepository struct {
	db *sql.DB
}

// NewMySQLOutboxRepository creates a new MySQLOutboxRepository
func NewMySQLOutboxRepository(db *sql.DB) *MySQLOutboxRepository {
	return &MySQLOutboxRepository{
		db: db,
	}
}

// Create inserts a new outbox message. Runs inside the caller's transaction
// when one is carried by the context.
func (r *MySQLOutboxRepository) Create(ctx context.Context, message *domain.OutboxMessage) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO outbox_messages (id, message_type, user_id, status, attempts, next_attempt_at, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	// Convert UUID to bytes for MySQL BINARY(16)
	idBytes, err := message.ID.MarshalBinary()
	if err != nil {
		return err
	}

	_, err = querier.ExecContext(ctx, query, idBytes, message.Type, message.UserID,
		message.Status, message.Attempts, message.NextAttemptAt, message.CreatedAt)

	return err
}

// GetDue retrieves pending messages whose next attempt time has passed,
// oldest first, up to limit.
func (r *MySQLOutboxRepository) GetDue(ctx context.Context, now time.Time, limit int) ([]*domain.OutboxMessage, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, message_type, user_id, status, attempts, next_attempt_at, created_at
			  FROM outbox_messages
			  WHERE status = ? AND next_attempt_at <= ?
			  ORDER BY created_at ASC
			  LIMIT ?`

	rows, err := querier.QueryContext(ctx, query, domain.MessageStatusPending, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var messages []*domain.OutboxMessage
	for rows.Next() {
		var message domain.OutboxMessage
		var idBytes []byte

		err := rows.Scan(&idBytes, &message.Type, &message.UserID, &message.Status,
			&message.Attempts, &message.NextAttemptAt, &message.CreatedAt)
		if err != nil {
			return nil, err
		}

		// Convert bytes back to UUID
		if err := message.ID.UnmarshalBinary(idBytes); err != nil {
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
func (r *MySQLOutboxRepository) Update(ctx context.Context, message *domain.OutboxMessage) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE outbox_messages
			  SET status = ?, attempts = ?, next_attempt_at = ?
			  WHERE id = ?`

	idBytes, err := message.ID.MarshalBinary()
	if err != nil {
		return err
	}

	_, err = querier.ExecContext(ctx, query, message.Status, message.Attempts, message.NextAttemptAt, idBytes)

	return err
}

// CountPending returns the number of pending messages, used to reconcile the
// backlog gauge after a restart.
func (r *MySQLOutboxRepository) CountPending(ctx context.Context) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT COUNT(*) FROM outbox_messages WHERE status = ?`

	var count int64
	err := querier.QueryRowContext(ctx, query, domain.MessageStatusPending).Scan(&count)

	return count, err
}
