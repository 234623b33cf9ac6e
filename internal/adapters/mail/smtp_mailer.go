package mail

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/packhouse_portal/internal/middleware"
	"github.com/SscSPs/packhouse_portal/internal/platform/config"
	"gopkg.in/gomail.v2"
)

const (
	inviteSubject = "You have been invited to the packhouse portal"
	resetSubject  = "Reset your packhouse portal password"
)

// sender is the part of gomail.Dialer the mailer needs.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer sends invite and reset mails over SMTP.
type SMTPMailer struct {
	dialer sender
	from   string
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		from:   cfg.SMTPFrom,
	}
}

func (m *SMTPMailer) SendInvite(ctx context.Context, to, acceptURL string) error {
	return m.send(ctx, to, inviteSubject, inviteBody(acceptURL))
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	return m.send(ctx, to, resetSubject, resetBody(resetURL))
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to send mail",
			slog.String("subject", subject), slog.String("error", err.Error()))
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

func inviteBody(acceptURL string) string {
	return "You have been invited to the packhouse portal.\n\n" +
		"Open the link below to choose a password and sign in:\n" + acceptURL + "\n"
}

func resetBody(resetURL string) string {
	return "Someone asked to reset the password for this account.\n\n" +
		"Open the link below to choose a new password:\n" + resetURL + "\n\n" +
		"If this was not you, you can ignore this mail.\n"
}
