package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"strings"

	"flightdeals-service/internal/domain/repository"
	"flightdeals-service/pkg/logger"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// GmailSender sends alert copies from the authorized Gmail account
type GmailSender struct {
	gmailService *gmail.Service
	from         string
	to           string
	logger       logger.Logger
}

// NewGmailSender creates a Gmail sender. Callers pass option.WithTokenSource
// in production and option.WithEndpoint/WithHTTPClient in tests.
func NewGmailSender(ctx context.Context, from, to string, logger logger.Logger, opts ...option.ClientOption) (*GmailSender, error) {
	service, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}

	return &GmailSender{
		gmailService: service,
		from:         from,
		to:           to,
		logger:       logger,
	}, nil
}

var _ repository.EmailNotificationRepository = (*GmailSender)(nil)

// SendEmail sends a plain-text email and returns the Gmail message id
func (s *GmailSender) SendEmail(ctx context.Context, subject, body string) (string, error) {
	raw := buildMessage(s.from, s.to, subject, body)

	msg := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(raw)),
	}

	sent, err := s.gmailService.Users.Messages.Send("me", msg).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("Email copy sent", "messageId", sent.Id, "to", s.to)
	return sent.Id, nil
}

func buildMessage(from, to, subject, body string) string {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return b.String()
}
