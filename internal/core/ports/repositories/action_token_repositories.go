package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/packhouse_portal/internal/core/domain"
)

// ActionTokenRepository stores one-time invite and password reset tokens
type ActionTokenRepository interface {
	// SaveActionToken persists a new token.
	SaveActionToken(ctx context.Context, token domain.ActionToken) error

	// ConsumeActionToken marks an unused, unexpired token of the given kind as used
	// and returns it. Returns apperrors.ErrNotFound if no such token exists.
	ConsumeActionToken(ctx context.Context, tokenHash string, kind domain.ActionTokenKind, now time.Time) (*domain.ActionToken, error)
}
