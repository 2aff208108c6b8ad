package api

import "github.com/qmail-dev/qmail/shared/domain"

type SendEmailRequest struct {
	SenderEmail    *string `json:"sender_email" validate:"required"`
	RecipientEmail *string `json:"recipient_email" validate:"required"`
	EncryptedBody  *string `json:"encrypted_body" validate:"required"`
}

type SendEmailResponse struct {
	Message string `json:"message"`
}

// MailboxResponse is serialized as a bare JSON array.
type MailboxResponse []domain.Message
