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

// ErrUserStillReferenced is shown when a delete is blocked by rows that still point at the user.
const ErrUserStillReferenced = "This user still owns records and cannot be deleted."

type PgxIdentityRepository struct {
	BaseRepository
}

func newPgxIdentityRepository(pool DB) portsrepo.IdentityRepositoryFacade {
	return &PgxIdentityRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.IdentityRepositoryFacade = (*PgxIdentityRepository)(nil)

const identitySelectQuery = `
SELECT
	identity_id, email, password_hash, banned_until, last_sign_in_at,
	refresh_token_hash, refresh_token_expires_at, created_at, updated_at
FROM identities
`

func (r *PgxIdentityRepository) getIdentities(ctx context.Context, filterQuery string, args ...any) ([]domain.Identity, error) {
	rows, err := r.Pool.Query(ctx, identitySelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query identities", err)
	}
	defer rows.Close()

	identities, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Identity])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Identity{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect identity rows", err)
	}
	return identities, nil
}

func (r *PgxIdentityRepository) findOne(ctx context.Context, filterQuery string, args ...any) (*domain.Identity, error) {
	identities, err := r.getIdentities(ctx, filterQuery, args...)
	if err != nil {
		return nil, err
	}
	if len(identities) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &identities[0], nil
}

func (r *PgxIdentityRepository) FindIdentityByID(ctx context.Context, identityID string) (*domain.Identity, error) {
	return r.findOne(ctx, `WHERE identity_id = $1`, identityID)
}

func (r *PgxIdentityRepository) FindIdentityByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	return r.findOne(ctx, `WHERE lower(email) = lower($1)`, email)
}

func (r *PgxIdentityRepository) FindIdentityByRefreshTokenHash(ctx context.Context, tokenHash string) (*domain.Identity, error) {
	return r.findOne(ctx, `WHERE refresh_token_hash = $1`, tokenHash)
}

func (r *PgxIdentityRepository) ListIdentities(ctx context.Context) ([]domain.Identity, error) {
	return r.getIdentities(ctx, `ORDER BY created_at DESC`)
}

func (r *PgxIdentityRepository) SaveIdentity(ctx context.Context, identity domain.Identity) error {
	query := `
		INSERT INTO identities (identity_id, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := r.Pool.Exec(ctx, query,
		identity.IdentityID,
		identity.Email,
		identity.PasswordHash,
		identity.CreatedAt,
		identity.UpdatedAt,
	)
	if err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return apperrors.NewConflictError("A user with this email address has already been registered")
		}
		return apperrors.NewAppError(500, "failed to save identity", err)
	}
	return nil
}

// exec runs a single-row update and maps zero affected rows to ErrNotFound.
func (r *PgxIdentityRepository) exec(ctx context.Context, what string, query string, args ...any) error {
	tag, err := r.Pool.Exec(ctx, query, args...)
	if err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return apperrors.NewConflictError("A user with this email address has already been registered")
		}
		return apperrors.NewAppError(500, "failed to "+what, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("User not found")
	}
	return nil
}

func (r *PgxIdentityRepository) UpdateIdentityEmail(ctx context.Context, identityID, email string) error {
	return r.exec(ctx, "update identity email",
		`UPDATE identities SET email = $1, updated_at = NOW() WHERE identity_id = $2;`,
		email, identityID)
}

func (r *PgxIdentityRepository) UpdatePasswordHash(ctx context.Context, identityID, passwordHash string) error {
	return r.exec(ctx, "update password",
		`UPDATE identities SET password_hash = $1, updated_at = NOW() WHERE identity_id = $2;`,
		passwordHash, identityID)
}

func (r *PgxIdentityRepository) SetBannedUntil(ctx context.Context, identityID string, bannedUntil *time.Time) error {
	query := `
		UPDATE identities
		SET banned_until = $1,
			refresh_token_hash = CASE WHEN $1::timestamptz IS NULL THEN refresh_token_hash END,
			refresh_token_expires_at = CASE WHEN $1::timestamptz IS NULL THEN refresh_token_expires_at END,
			updated_at = NOW()
		WHERE identity_id = $2;
	`
	return r.exec(ctx, "update ban status", query, bannedUntil, identityID)
}

func (r *PgxIdentityRepository) RecordSignIn(ctx context.Context, identityID string, at time.Time) error {
	return r.exec(ctx, "record sign in",
		`UPDATE identities SET last_sign_in_at = $1 WHERE identity_id = $2;`,
		at, identityID)
}

func (r *PgxIdentityRepository) UpdateRefreshToken(ctx context.Context, identityID, tokenHash string, expiresAt time.Time) error {
	return r.exec(ctx, "store refresh token",
		`UPDATE identities SET refresh_token_hash = $1, refresh_token_expires_at = $2 WHERE identity_id = $3;`,
		tokenHash, expiresAt, identityID)
}

func (r *PgxIdentityRepository) RotateRefreshToken(ctx context.Context, identityID, oldHash, newHash string, expiresAt time.Time) (bool, error) {
	query := `
		UPDATE identities
		SET refresh_token_hash = $1, refresh_token_expires_at = $2
		WHERE identity_id = $3 AND refresh_token_hash = $4;
	`
	tag, err := r.Pool.Exec(ctx, query, newHash, expiresAt, identityID, oldHash)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to rotate refresh token", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PgxIdentityRepository) ClearRefreshToken(ctx context.Context, identityID string) error {
	_, err := r.Pool.Exec(ctx,
		`UPDATE identities SET refresh_token_hash = NULL, refresh_token_expires_at = NULL WHERE identity_id = $1;`,
		identityID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to clear refresh token", err)
	}
	return nil
}

// DeleteIdentity removes the identity. The profile and action tokens cascade; work items
// and inspections keep their rows with the user reference set to NULL.
func (r *PgxIdentityRepository) DeleteIdentity(ctx context.Context, identityID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM identities WHERE identity_id = $1;`, identityID)
	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return apperrors.NewConflictError(ErrUserStillReferenced)
		}
		return apperrors.NewAppError(500, "failed to delete user", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("User not found")
	}
	return nil
}
