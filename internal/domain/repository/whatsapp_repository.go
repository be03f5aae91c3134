package repository

import "context"

// WhatsappRepository defines the interface for WhatsApp operations
type WhatsappRepository interface {
	SendMessage(ctx context.Context, text string) (string, error)
}

// EmailNotificationRepository sends a copy of an alert by email
type EmailNotificationRepository interface {
	SendEmail(ctx context.Context, subject, body string) (string, error)
}
