package pg

import (
	"context"
	"fmt"

	"github.com/qmail-dev/qmail/shared/domain"
)

// SaveMessage appends one message; the id comes from the store.
func (s *Storage) SaveMessage(ctx context.Context, data domain.MessageCreationData) (domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	msg := domain.Message{
		SenderEmail:    data.SenderEmail,
		RecipientEmail: data.RecipientEmail,
		EncryptedBody:  data.EncryptedBody,
		Timestamp:      data.Timestamp.UTC(),
	}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO emails (sender_email, recipient_email, encrypted_body, "timestamp")
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		msg.SenderEmail, msg.RecipientEmail, msg.EncryptedBody, msg.Timestamp,
	).Scan(&msg.Id)
	if err != nil {
		return domain.Message{}, fmt.Errorf("failed to insert message: %w", err)
	}
	return msg, nil
}

// Inbox returns up to limit messages addressed to email, newest first.
func (s *Storage) Inbox(ctx context.Context, email domain.Email, limit int) ([]domain.Message, error) {
	return s.messages(ctx, "recipient_email", email, limit)
}

// Sent returns up to limit messages sent from email, newest first.
func (s *Storage) Sent(ctx context.Context, email domain.Email, limit int) ([]domain.Message, error) {
	return s.messages(ctx, "sender_email", email, limit)
}

// column is one of the two fixed names used by Inbox and Sent, never user input.
func (s *Storage) messages(ctx context.Context, column string, email domain.Email, limit int) ([]domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT id, sender_email, recipient_email, encrypted_body, "timestamp"
		FROM emails
		WHERE %s = $1
		ORDER BY "timestamp" DESC, id DESC
		LIMIT $2`, column)

	rows, err := s.db.QueryContext(ctx, query, email, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(&msg.Id, &msg.SenderEmail, &msg.RecipientEmail, &msg.EncryptedBody, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msg.Timestamp = msg.Timestamp.UTC()
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}
	return messages, nil
}
