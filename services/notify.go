package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v3"

	"careerhub/models"
)

// EmailSender delivers account notifications. Services depend on this
// interface, not on the Resend client.
type EmailSender interface {
	SendApprovalDecision(ctx context.Context, toEmail string, status models.AccountStatus) error
}

var notifier EmailSender = noopSender{}

// Notifier returns the configured email sender
func Notifier() EmailSender {
	return notifier
}

// InitNotifier wires the Resend-backed sender. With no API key the
// notifier stays a no-op and decisions are recorded without email.
func InitNotifier(apiKey, fromEmail string) {
	if apiKey == "" {
		slog.Info("RESEND_API_KEY not set, approval emails disabled")
		return
	}
	notifier = &resendSender{
		client:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
	}
}

type noopSender struct{}

func (noopSender) SendApprovalDecision(ctx context.Context, toEmail string, status models.AccountStatus) error {
	return nil
}

type resendSender struct {
	client    *resend.Client
	fromEmail string
}

func (s *resendSender) SendApprovalDecision(ctx context.Context, toEmail string, status models.AccountStatus) error {
	subject := "Your mentor account application"
	body := fmt.Sprintf(
		"<p>Your faculty mentor application has been <strong>%s</strong>.</p>",
		status,
	)
	if status == models.StatusApproved {
		body += "<p>You can now publish events and career tips on the platform.</p>"
	}

	_, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{toEmail},
		Subject: subject,
		Html:    body,
	})
	if err != nil {
		return fmt.Errorf("failed to send approval email: %w", err)
	}
	return nil
}
