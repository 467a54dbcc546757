// internal/notifications/email.go
// Optional SendGrid email delivery channel. Same best-effort rule as the
// in-app insert: a send failure is logged by the caller, never surfaced.

package notifications

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailSender delivers a notification by email
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// SendGridEmailSender implements EmailSender using SendGrid
type SendGridEmailSender struct {
	apiKey string
	from   string
}

// NewSendGridEmailSender creates a SendGrid-backed sender
func NewSendGridEmailSender(apiKey, from string) *SendGridEmailSender {
	return &SendGridEmailSender{apiKey: apiKey, from: from}
}

func (s *SendGridEmailSender) SendEmail(ctx context.Context, to, subject, body string) error {
	fromAddr := mail.NewEmail("YourSpace", s.from)
	toAddr := mail.NewEmail("", to)

	message := mail.NewSingleEmail(fromAddr, subject, toAddr, body, "")
	client := sendgrid.NewSendClient(s.apiKey)

	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email via SendGrid: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("SendGrid returned error status: %d", response.StatusCode)
	}

	return nil
}
