package service

import (
	"context"
	"fmt"
	"time"

	"github.com/qmail-dev/qmail/shared/domain"
	internal_errors "github.com/qmail-dev/qmail/shared/errors"
	"github.com/qmail-dev/qmail/shared/logger"
)

type MailService interface {
	Send(ctx context.Context, data domain.MessageCreationData) (domain.Message, error)
	Inbox(ctx context.Context, email domain.Email) ([]domain.Message, error)
	Sent(ctx context.Context, email domain.Email) ([]domain.Message, error)
}

type MailStorage interface {
	User(ctx context.Context, email domain.Email) (domain.User, error)
	SaveMessage(ctx context.Context, data domain.MessageCreationData) (domain.Message, error)
	Inbox(ctx context.Context, email domain.Email, limit int) ([]domain.Message, error)
	Sent(ctx context.Context, email domain.Email, limit int) ([]domain.Message, error)
}

// Notifier is told about every stored message whose recipient has a recovery email.
// It must not block the caller.
type Notifier interface {
	NotifyNewMessage(recoveryEmail domain.Email, msg domain.Message)
}

type Mail struct {
	storage  MailStorage
	notifier Notifier
	limit    int
	now      func() time.Time
}

func NewMail(storage MailStorage, notifier Notifier, mailboxLimit int) *Mail {
	return &Mail{
		storage:  storage,
		notifier: notifier,
		limit:    mailboxLimit,
		now:      time.Now,
	}
}

// Send stores the ciphertext for an existing recipient, then hands the
// notification off. The sender address is taken on trust.
func (m *Mail) Send(ctx context.Context, data domain.MessageCreationData) (domain.Message, error) {
	recipient, err := m.storage.User(ctx, data.RecipientEmail)
	if err != nil {
		if internal_errors.IsNotFound(err) {
			return domain.Message{}, internal_errors.NotFound("Recipient not found")
		}
		return domain.Message{}, err
	}

	data.Timestamp = m.now().UTC()
	msg, err := m.storage.SaveMessage(ctx, data)
	if err != nil {
		return domain.Message{}, err
	}
	logger.Log.Info("message stored", "message_id", msg.Id.String())

	if recipient.RecoveryEmail != "" && m.notifier != nil {
		m.notifier.NotifyNewMessage(recipient.RecoveryEmail, msg)
	}
	return msg, nil
}

func (m *Mail) Inbox(ctx context.Context, email domain.Email) ([]domain.Message, error) {
	msgs, err := m.storage.Inbox(ctx, email, m.limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get inbox: %w", err)
	}
	return msgs, nil
}

func (m *Mail) Sent(ctx context.Context, email domain.Email) ([]domain.Message, error) {
	msgs, err := m.storage.Sent(ctx, email, m.limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get sent mail: %w", err)
	}
	return msgs, nil
}
