package services

import (
	"context"
	"time"

	"github.com/SscSPs/packhouse_portal/internal/core/domain"
	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"
)

// TokenSvcFacade issues and parses session tokens.
type TokenSvcFacade interface {
	// GenerateAccessToken creates a signed JWT whose subject is the identity ID.
	GenerateAccessToken(ctx context.Context, identityID string) (string, time.Time, error)
	// GenerateRefreshToken creates an opaque random refresh token.
	GenerateRefreshToken(ctx context.Context) (string, time.Time, error)
	// ParseAccessToken validates a JWT and returns its subject.
	ParseAccessToken(ctx context.Context, accessToken string) (string, error)
}

// SessionSvcFacade signs users in and out and keeps sessions fresh.
type SessionSvcFacade interface {
	// SignIn checks email/password and issues a session.
	SignIn(ctx context.Context, email, password string) (*domain.Session, error)
	// SignInWithVerifiedEmail issues a session for an existing identity whose email
	// was verified by an external provider.
	SignInWithVerifiedEmail(ctx context.Context, email string) (*domain.Session, error)
	// Authenticate validates presented tokens, rotating them when the access token
	// has lapsed but the refresh token is still good. The returned resolution has
	// no Principal; see IdentityResolverSvc.
	Authenticate(ctx context.Context, tokens domain.SessionTokens) (*domain.Resolution, error)
	// SignOut revokes the identity's refresh token.
	SignOut(ctx context.Context, identityID string) error
}

// CredentialSvcFacade creates self-service accounts and manages passwords via one-time tokens.
type CredentialSvcFacade interface {
	// SignUp creates an identity with a password and a profile holding the default role.
	// It does not sign the user in.
	SignUp(ctx context.Context, email, password string) error
	// AcceptInvite sets the first password of an invited identity and signs it in.
	AcceptInvite(ctx context.Context, token, password, confirm string) (*domain.Session, error)
	// RequestPasswordReset mails a reset link. Unknown emails succeed silently.
	RequestPasswordReset(ctx context.Context, email string) error
	// ResetPassword sets a new password using a reset token.
	ResetPassword(ctx context.Context, token, password, confirm string) error
	// IssueInvite creates an invite token for identityID and mails it.
	IssueInvite(ctx context.Context, identityID, email string) error
}

// IdentityResolverSvc turns session tokens into the current principal.
type IdentityResolverSvc interface {
	// Resolve never returns a principal whose stored role is invalid; such identities
	// resolve with Principal == nil. A missing session is not an error.
	Resolve(ctx context.Context, tokens domain.SessionTokens) (*domain.Resolution, error)
}

// GoogleOAuthHandlerSvcFacade defines the interface for Google OAuth operations.
type GoogleOAuthHandlerSvcFacade interface {
	// IsConfigured reports whether Google sign-in can be offered.
	IsConfigured() bool
	// GenerateStateString creates a secure random string to be used as a CSRF token for OAuth flow.
	GenerateStateString(ctx context.Context) (string, error)
	// GetGoogleLoginURL returns the URL to redirect the user to for Google login.
	GetGoogleLoginURL(ctx context.Context, state string) string
	// ExchangeCodeForToken exchanges an OAuth authorization code for a token.
	ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error)
	// ValidateGoogleIDToken validates an ID token string from Google and returns its payload.
	ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*idtoken.Payload, error)
}
