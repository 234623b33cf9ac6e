package pgsql

import (
	"context"
	"errors"

	"github.com/SscSPs/packhouse_portal/internal/apperrors"
	"github.com/SscSPs/packhouse_portal/internal/core/domain"
	portsrepo "github.com/SscSPs/packhouse_portal/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

type PgxProfileRepository struct {
	BaseRepository
}

func newPgxProfileRepository(pool DB) portsrepo.ProfileRepositoryFacade {
	return &PgxProfileRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ProfileRepositoryFacade = (*PgxProfileRepository)(nil)

const profileSelectQuery = `
SELECT id, email, role, first_name, last_name, avatar_url, created_at, updated_at
FROM profiles
`

func (r *PgxProfileRepository) getProfiles(ctx context.Context, filterQuery string, args ...any) ([]domain.Profile, error) {
	rows, err := r.Pool.Query(ctx, profileSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query profiles", err)
	}
	defer rows.Close()

	profiles, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Profile])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Profile{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect profile rows", err)
	}
	return profiles, nil
}

func (r *PgxProfileRepository) FindProfileByID(ctx context.Context, profileID string) (*domain.Profile, error) {
	profiles, err := r.getProfiles(ctx, `WHERE id = $1`, profileID)
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &profiles[0], nil
}

func (r *PgxProfileRepository) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	return r.getProfiles(ctx, `ORDER BY created_at DESC`)
}

func (r *PgxProfileRepository) SaveProfile(ctx context.Context, profile domain.Profile) error {
	query := `
		INSERT INTO profiles (id, email, role, first_name, last_name, avatar_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		profile.ProfileID,
		profile.Email,
		profile.Role,
		profile.FirstName,
		profile.LastName,
		profile.AvatarURL,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		switch pgErrorCode(err) {
		case pgUniqueViolation:
			return apperrors.NewConflictError("profile " + profile.ProfileID + " already exists")
		case pgForeignKeyViolation:
			return apperrors.NewValidationFailedError("profile has no matching user")
		}
		return apperrors.NewAppError(500, "failed to save profile", err)
	}
	return nil
}

func (r *PgxProfileRepository) update(ctx context.Context, what, query string, args ...any) error {
	tag, err := r.Pool.Exec(ctx, query, args...)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update "+what, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("Profile not found")
	}
	return nil
}

func (r *PgxProfileRepository) UpdateProfileName(ctx context.Context, profileID string, firstName, lastName *string) error {
	return r.update(ctx, "name",
		`UPDATE profiles SET first_name = $1, last_name = $2, updated_at = NOW() WHERE id = $3;`,
		firstName, lastName, profileID)
}

func (r *PgxProfileRepository) UpdateProfileEmail(ctx context.Context, profileID, email string) error {
	return r.update(ctx, "email",
		`UPDATE profiles SET email = $1, updated_at = NOW() WHERE id = $2;`,
		email, profileID)
}

func (r *PgxProfileRepository) UpdateProfileRole(ctx context.Context, profileID string, role domain.Role) error {
	return r.update(ctx, "role",
		`UPDATE profiles SET role = $1, updated_at = NOW() WHERE id = $2;`,
		string(role), profileID)
}

func (r *PgxProfileRepository) UpdateProfileAvatar(ctx context.Context, profileID string, avatarURL *string) error {
	return r.update(ctx, "avatar",
		`UPDATE profiles SET avatar_url = $1, updated_at = NOW() WHERE id = $2;`,
		avatarURL, profileID)
}
