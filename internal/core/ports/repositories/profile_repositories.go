package repositories

import (
	"context"

	"github.com/SscSPs/packhouse_portal/internal/core/domain"
)

// ProfileReader defines read operations for profile data
type ProfileReader interface {
	// FindProfileByID retrieves a profile. Returns apperrors.ErrNotFound when absent.
	FindProfileByID(ctx context.Context, profileID string) (*domain.Profile, error)

	// ListProfiles retrieves all profiles, newest first.
	ListProfiles(ctx context.Context) ([]domain.Profile, error)
}

// ProfileWriter defines write operations for profile data
type ProfileWriter interface {
	// SaveProfile persists a new profile.
	SaveProfile(ctx context.Context, profile domain.Profile) error

	// UpdateProfileName sets first and last name; nil clears a field.
	UpdateProfileName(ctx context.Context, profileID string, firstName, lastName *string) error

	// UpdateProfileEmail updates the mirrored email.
	UpdateProfileEmail(ctx context.Context, profileID, email string) error

	// UpdateProfileRole changes the role.
	UpdateProfileRole(ctx context.Context, profileID string, role domain.Role) error

	// UpdateProfileAvatar sets or clears (nil) the avatar URL.
	UpdateProfileAvatar(ctx context.Context, profileID string, avatarURL *string) error
}

// ProfileRepositoryFacade combines all profile repository interfaces
type ProfileRepositoryFacade interface {
	ProfileReader
	ProfileWriter
}
