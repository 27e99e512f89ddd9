package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/trailhead/tours-api/internal/core/domain"
)

// Config captures the outbound SMTP settings.
type Config struct {
	Host string
	Port int
	From string
}

// SMTPMailer sends transactional mail over plain SMTP. Failures are
// returned to the caller, which decides whether rollback is needed.
type SMTPMailer struct {
	addr string
	from string
}

func NewSMTPMailer(cfg Config) *SMTPMailer {
	return &SMTPMailer{
		addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		from: cfg.From,
	}
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to *domain.Account, resetURL string) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nForgot your password? Submit a request with your new password to:\n\n%s\n\nThe link is valid for 10 minutes. If you didn't request a reset, ignore this email.\n",
		to.Name, resetURL,
	)
	return m.send(ctx, to.Email, "Your password reset token", body)
}

func (m *SMTPMailer) SendWelcome(ctx context.Context, to *domain.Account, loginURL string) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nWelcome aboard! Visit %s to complete your profile.\n",
		to.Name, loginURL,
	)
	return m.send(ctx, to.Email, "Welcome to the tours platform", body)
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	if err := smtp.SendMail(m.addr, nil, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
