package domain

import "time"

// Message is an append-only record of one encrypted mail.
// EncryptedBody is stored and returned as is.
type Message struct {
	Id             ID            `json:"id"`
	SenderEmail    Email         `json:"sender_email"`
	RecipientEmail Email         `json:"recipient_email"`
	EncryptedBody  EncryptedBody `json:"encrypted_body"`
	Timestamp      time.Time     `json:"timestamp"`
}

type MessageCreationData struct {
	SenderEmail    Email
	RecipientEmail Email
	EncryptedBody  EncryptedBody
	Timestamp      time.Time
}
