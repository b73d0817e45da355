package service

import (
	"context"
	"fmt"
	"log"

	"github.com/resend/resend-go/v2"
)

// EmailService sends transactional email via Resend.
type EmailService struct {
	client *resend.Client
	from   string
}

// NewEmailService creates the email sender. Returns nil if Resend is not
// configured; a nil service degrades every send to a logged no-op.
func NewEmailService(apiKey, fromEmail string) *EmailService {
	if apiKey == "" {
		return nil
	}
	return &EmailService{client: resend.NewClient(apiKey), from: fromEmail}
}

func (s *EmailService) Send(ctx context.Context, to, subject, text string) error {
	if s == nil || to == "" {
		log.Printf("[Email] not configured or empty recipient, skipping")
		return nil
	}
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Text:    text,
	}
	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	return nil
}
