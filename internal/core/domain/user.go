package domain

import "time"

// PermanentBanDuration is how long an admin ban lasts (roughly a century).
const PermanentBanDuration = 876000 * time.Hour

// Identity is the credential record owned by the identity store.
type Identity struct {
	IdentityID            string     `db:"identity_id"`
	Email                 string     `db:"email"`
	PasswordHash          *string    `db:"password_hash"`
	BannedUntil           *time.Time `db:"banned_until"`
	LastSignInAt          *time.Time `db:"last_sign_in_at"`
	RefreshTokenHash      *string    `db:"refresh_token_hash"`
	RefreshTokenExpiresAt *time.Time `db:"refresh_token_expires_at"`
	CreatedAt             time.Time  `db:"created_at"`
	UpdatedAt             time.Time  `db:"updated_at"`
}

// IsBanned reports whether the identity is banned at now.
func (i Identity) IsBanned(now time.Time) bool {
	return i.BannedUntil != nil && i.BannedUntil.After(now)
}

// Profile mirrors an identity with the application-owned attributes.
// Role is kept as the raw stored string so that unknown values can be rejected on read.
type Profile struct {
	ProfileID string    `db:"id"`
	Email     *string   `db:"email"`
	Role      string    `db:"role"`
	FirstName *string   `db:"first_name"`
	LastName  *string   `db:"last_name"`
	AvatarURL *string   `db:"avatar_url"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Principal is the authenticated caller with a validated role.
type Principal struct {
	UserID       string
	Email        *string
	FirstName    *string
	LastName     *string
	Role         Role
	CreatedAt    time.Time
	LastSignInAt *time.Time
}

// HasRole reports whether the principal holds one of roles.
func (p Principal) HasRole(roles ...Role) bool {
	return p.Role.In(roles...)
}

// UserSummary is one row of the admin user list: a profile merged with its identity.
type UserSummary struct {
	ID           string
	Email        *string
	Role         Role
	FirstName    *string
	LastName     *string
	CreatedAt    time.Time
	LastSignInAt *time.Time
	Banned       bool
}

// AccountSettings is what a user sees on their own settings page.
type AccountSettings struct {
	UserID    string
	Email     string
	FirstName *string
	LastName  *string
	AvatarURL *string
	Initials  string
}
