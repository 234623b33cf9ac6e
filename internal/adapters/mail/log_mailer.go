package mail

import (
	"context"
	"log/slog"

	"github.com/SscSPs/packhouse_portal/internal/middleware"
)

// LogMailer writes mails to the log. Used when no SMTP host is configured.
type LogMailer struct{}

func NewLogMailer() *LogMailer { return &LogMailer{} }

func (LogMailer) SendInvite(ctx context.Context, to, acceptURL string) error {
	middleware.GetLoggerFromCtx(ctx).Info("Invite mail", slog.String("to", to), slog.String("link", acceptURL))
	return nil
}

func (LogMailer) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	middleware.GetLoggerFromCtx(ctx).Info("Password reset mail", slog.String("to", to), slog.String("link", resetURL))
	return nil
}
