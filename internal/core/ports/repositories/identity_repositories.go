package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/packhouse_portal/internal/core/domain"
)

// IdentityReader defines read operations on the identity store
type IdentityReader interface {
	// FindIdentityByID retrieves an identity by its ID.
	FindIdentityByID(ctx context.Context, identityID string) (*domain.Identity, error)

	// FindIdentityByEmail retrieves an identity by email, case-insensitively.
	FindIdentityByEmail(ctx context.Context, email string) (*domain.Identity, error)

	// FindIdentityByRefreshTokenHash retrieves the identity holding the given refresh token hash.
	FindIdentityByRefreshTokenHash(ctx context.Context, tokenHash string) (*domain.Identity, error)

	// ListIdentities retrieves all identities.
	ListIdentities(ctx context.Context) ([]domain.Identity, error)
}

// IdentityWriter defines write operations on the identity store
type IdentityWriter interface {
	// SaveIdentity persists a new identity.
	SaveIdentity(ctx context.Context, identity domain.Identity) error

	// UpdateIdentityEmail changes the sign-in email.
	UpdateIdentityEmail(ctx context.Context, identityID, email string) error

	// UpdatePasswordHash replaces the stored password hash.
	UpdatePasswordHash(ctx context.Context, identityID, passwordHash string) error

	// SetBannedUntil sets or clears (nil) the ban expiry. A ban also drops the refresh token.
	SetBannedUntil(ctx context.Context, identityID string, bannedUntil *time.Time) error

	// RecordSignIn stamps last_sign_in_at.
	RecordSignIn(ctx context.Context, identityID string, at time.Time) error

	// UpdateRefreshToken stores the hash and expiry of a freshly issued refresh token.
	UpdateRefreshToken(ctx context.Context, identityID, tokenHash string, expiresAt time.Time) error

	// RotateRefreshToken swaps oldHash for newHash only if oldHash is still current.
	// It reports false when another request already rotated the token.
	RotateRefreshToken(ctx context.Context, identityID, oldHash, newHash string, expiresAt time.Time) (bool, error)

	// ClearRefreshToken drops the stored refresh token.
	ClearRefreshToken(ctx context.Context, identityID string) error

	// DeleteIdentity permanently removes the identity; the profile cascades.
	DeleteIdentity(ctx context.Context, identityID string) error
}

// IdentityRepositoryFacade combines all identity repository interfaces
type IdentityRepositoryFacade interface {
	IdentityReader
	IdentityWriter
}
