package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campuslink/alumni-hub-api/internal/models"
)

// MessageRepository provides database access for private messages.
type MessageRepository struct {
	db *sqlx.DB
}

// NewMessageRepository creates a new instance of MessageRepository.
func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts a new message.
func (r *MessageRepository) Create(ctx context.Context, msg *models.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO messages (id, sender_id, recipient_id, subject, content, is_read, created_at)
VALUES (:id, :sender_id, :recipient_id, :subject, :content, :is_read, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, msg); err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	return nil
}

// FindByID returns a message by identifier.
func (r *MessageRepository) FindByID(ctx context.Context, id string) (*models.Message, error) {
	const query = `SELECT id, sender_id, recipient_id, subject, content, is_read, created_at
FROM messages WHERE id = $1 LIMIT 1`
	var msg models.Message
	if err := r.db.GetContext(ctx, &msg, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find message: %w", err)
	}
	return &msg, nil
}

// ListInbox returns messages received by a user with sender names, newest
// first.
func (r *MessageRepository) ListInbox(ctx context.Context, userID string) ([]models.MessageDetail, error) {
	const query = `SELECT m.id, m.sender_id, m.recipient_id, m.subject, m.content, m.is_read, m.created_at,
	ap.name AS sender_name
FROM messages m
LEFT JOIN alumni_profiles ap ON m.sender_id = ap.user_id
WHERE m.recipient_id = $1
ORDER BY m.created_at DESC`
	var messages []models.MessageDetail
	if err := r.db.SelectContext(ctx, &messages, query, userID); err != nil {
		return nil, fmt.Errorf("list inbox: %w", err)
	}
	return messages, nil
}

// ListSent returns messages sent by a user with recipient names, newest
// first.
func (r *MessageRepository) ListSent(ctx context.Context, userID string) ([]models.MessageDetail, error) {
	const query = `SELECT m.id, m.sender_id, m.recipient_id, m.subject, m.content, m.is_read, m.created_at,
	ap.name AS recipient_name
FROM messages m
LEFT JOIN alumni_profiles ap ON m.recipient_id = ap.user_id
WHERE m.sender_id = $1
ORDER BY m.created_at DESC`
	var messages []models.MessageDetail
	if err := r.db.SelectContext(ctx, &messages, query, userID); err != nil {
		return nil, fmt.Errorf("list sent messages: %w", err)
	}
	return messages, nil
}

// CountUnread returns the number of unread messages a user holds.
func (r *MessageRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM messages WHERE recipient_id = $1 AND is_read = FALSE`, userID); err != nil {
		return 0, fmt.Errorf("count unread messages: %w", err)
	}
	return count, nil
}

// MarkRead flags a message as read, but only for its recipient.
func (r *MessageRepository) MarkRead(ctx context.Context, id, recipientID string) error {
	const query = `UPDATE messages SET is_read = TRUE WHERE id = $1 AND recipient_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, recipientID)
	if err != nil {
		return fmt.Errorf("mark message read: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a message when the given user is a participant.
func (r *MessageRepository) Delete(ctx context.Context, id, participantID string) error {
	const query = `DELETE FROM messages WHERE id = $1 AND (sender_id = $2 OR recipient_id = $2)`
	res, err := r.db.ExecContext(ctx, query, id, participantID)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListContacts returns the verified users a sender may message, excluding
// themselves.
func (r *MessageRepository) ListContacts(ctx context.Context, userID string) ([]models.Contact, error) {
	const query = `SELECT u.id AS user_id, COALESCE(ap.name, u.email) AS name, u.email
FROM users u
LEFT JOIN alumni_profiles ap ON u.id = ap.user_id
WHERE u.verified = TRUE AND u.id <> $1
ORDER BY name ASC`
	var contacts []models.Contact
	if err := r.db.SelectContext(ctx, &contacts, query, userID); err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}
