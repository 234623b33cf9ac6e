package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/SscSPs/packhouse_portal/internal/apperrors"
	"github.com/SscSPs/packhouse_portal/internal/core/domain"
	portsrepo "github.com/SscSPs/packhouse_portal/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

type PgxActionTokenRepository struct {
	BaseRepository
}

func newPgxActionTokenRepository(pool DB) portsrepo.ActionTokenRepository {
	return &PgxActionTokenRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ActionTokenRepository = (*PgxActionTokenRepository)(nil)

func (r *PgxActionTokenRepository) SaveActionToken(ctx context.Context, token domain.ActionToken) error {
	query := `
		INSERT INTO action_tokens (token_hash, identity_id, kind, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := r.Pool.Exec(ctx, query, token.TokenHash, token.IdentityID, token.Kind, token.ExpiresAt, token.CreatedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save token", err)
	}
	return nil
}

func (r *PgxActionTokenRepository) ConsumeActionToken(ctx context.Context, tokenHash string, kind domain.ActionTokenKind, now time.Time) (*domain.ActionToken, error) {
	query := `
		UPDATE action_tokens
		SET used_at = $1
		WHERE token_hash = $2 AND kind = $3 AND used_at IS NULL AND expires_at > $1
		RETURNING token_hash, identity_id, kind, expires_at, used_at, created_at;
	`
	rows, err := r.Pool.Query(ctx, query, now, tokenHash, kind)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to consume token", err)
	}
	token, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[domain.ActionToken])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("This link is invalid or has expired.")
		}
		return nil, apperrors.NewAppError(500, "failed to read consumed token", err)
	}
	return &token, nil
}
