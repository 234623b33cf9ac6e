package domain

import "time"

// SessionTokens are the raw cookie values presented by a browser.
type SessionTokens struct {
	AccessToken  string
	RefreshToken string
}

// IsEmpty reports whether neither token was presented.
func (t SessionTokens) IsEmpty() bool {
	return t.AccessToken == "" && t.RefreshToken == ""
}

// Session is a freshly issued token pair.
type Session struct {
	IdentityID            string
	AccessToken           string
	AccessTokenExpiresAt  time.Time
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
}

// Resolution is the outcome of resolving one request's session.
//
// IdentityID and Identity are set whenever the tokens belong to a live, unbanned identity.
// Principal is additionally set only when that identity has a profile with a valid role.
// Refreshed carries rotated tokens that must reach the browser; Revoked asks for the
// session cookies to be cleared.
type Resolution struct {
	IdentityID string
	Identity   *Identity
	Principal  *Principal
	Refreshed  *Session
	Revoked    bool
}

// HasSession reports whether the request carries a live session.
func (r *Resolution) HasSession() bool {
	return r != nil && r.IdentityID != ""
}

// ActionTokenKind distinguishes one-time tokens.
type ActionTokenKind string

const (
	ActionTokenInvite        ActionTokenKind = "invite"
	ActionTokenPasswordReset ActionTokenKind = "password_reset"
)

// ActionToken is a one-time invite or password reset token. Only its hash is stored.
type ActionToken struct {
	TokenHash  string          `db:"token_hash"`
	IdentityID string          `db:"identity_id"`
	Kind       ActionTokenKind `db:"kind"`
	ExpiresAt  time.Time       `db:"expires_at"`
	UsedAt     *time.Time      `db:"used_at"`
	CreatedAt  time.Time       `db:"created_at"`
}
