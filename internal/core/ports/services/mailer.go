package services

import "context"

// Mailer delivers transactional mail.
type Mailer interface {
	SendInvite(ctx context.Context, to, acceptURL string) error
	SendPasswordReset(ctx context.Context, to, resetURL string) error
}
