package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/SscSPs/packhouse_portal/internal/apperrors"
	"github.com/SscSPs/packhouse_portal/internal/core/domain"
	portsrepo "github.com/SscSPs/packhouse_portal/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/packhouse_portal/internal/core/ports/services"
	"github.com/SscSPs/packhouse_portal/internal/platform/config"
	"github.com/SscSPs/packhouse_portal/internal/utils"
	"github.com/google/uuid"
)

const (
	acceptInvitePath  = "/accept-invite"
	resetPasswordPath = "/reset-password"
)

type credentialService struct {
	BaseService
	cfg             *config.Config
	identityRepo    portsrepo.IdentityRepositoryFacade
	profileRepo     portsrepo.ProfileRepositoryFacade
	actionTokenRepo portsrepo.ActionTokenRepository
	sessions        portssvc.SessionSvcFacade
	mailer          portssvc.Mailer
	now             func() time.Time
}

// NewCredentialService creates the service behind sign-up, invite acceptance and password resets.
func NewCredentialService(
	cfg *config.Config,
	identityRepo portsrepo.IdentityRepositoryFacade,
	profileRepo portsrepo.ProfileRepositoryFacade,
	actionTokenRepo portsrepo.ActionTokenRepository,
	sessions portssvc.SessionSvcFacade,
	mailer portssvc.Mailer,
) portssvc.CredentialSvcFacade {
	return &credentialService{
		cfg:             cfg,
		identityRepo:    identityRepo,
		profileRepo:     profileRepo,
		actionTokenRepo: actionTokenRepo,
		sessions:        sessions,
		mailer:          mailer,
		now:             time.Now,
	}
}

var _ portssvc.CredentialSvcFacade = (*credentialService)(nil)

// SignUpRequiredMessage is shown when the sign-up form is missing a field.
const SignUpRequiredMessage = "Email and password are required"

func (s *credentialService) SignUp(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return apperrors.NewValidationFailedError(SignUpRequiredMessage)
	}
	if !strings.Contains(email, "@") {
		return apperrors.NewValidationFailedError("Please enter a valid email address.")
	}
	normalized, err := utils.ValidateNewPassword(password, password)
	if err != nil {
		return apperrors.NewValidationFailedError(err.Error())
	}
	hash, err := utils.HashPassword(normalized)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	userID := uuid.NewString()
	if err := s.identityRepo.SaveIdentity(ctx, domain.Identity{
		IdentityID:   userID,
		Email:        email,
		PasswordHash: &hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		s.LogError(ctx, err, "Failed to create identity on sign-up")
		return err
	}

	if err := s.profileRepo.SaveProfile(ctx, domain.Profile{
		ProfileID: userID,
		Email:     &email,
		Role:      string(domain.DefaultSignUpRole),
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		s.LogError(ctx, err, "Failed to create profile on sign-up", slog.String("user_id", userID))
		// Without a profile the identity could sign in but never resolve; drop it so the email can retry.
		if delErr := s.identityRepo.DeleteIdentity(ctx, userID); delErr != nil {
			s.LogError(ctx, delErr, "Failed to remove identity after profile failure", slog.String("user_id", userID))
		}
		return err
	}

	s.LogInfo(ctx, "User signed up", slog.String("user_id", userID), slog.String("role", string(domain.DefaultSignUpRole)))
	return nil
}

func (s *credentialService) IssueInvite(ctx context.Context, identityID, email string) error {
	token, err := s.issueToken(ctx, identityID, domain.ActionTokenInvite, s.cfg.InviteTokenExpiryDuration)
	if err != nil {
		return err
	}
	if err := s.mailer.SendInvite(ctx, email, s.link(acceptInvitePath, token)); err != nil {
		s.LogError(ctx, err, "Failed to send invite mail", slog.String("user_id", identityID))
		return apperrors.NewAppError(502, "The invite could not be sent.", err)
	}
	s.LogInfo(ctx, "Invite sent", slog.String("user_id", identityID))
	return nil
}

func (s *credentialService) AcceptInvite(ctx context.Context, token, password, confirm string) (*domain.Session, error) {
	normalized, err := utils.ValidateNewPassword(password, confirm)
	if err != nil {
		return nil, apperrors.NewValidationFailedError(err.Error())
	}

	consumed, err := s.actionTokenRepo.ConsumeActionToken(ctx, utils.HashToken(token), domain.ActionTokenInvite, s.now())
	if err != nil {
		return nil, err
	}
	identity, err := s.setPassword(ctx, consumed.IdentityID, normalized)
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Invite accepted", slog.String("user_id", identity.IdentityID))
	return s.sessions.SignIn(ctx, identity.Email, normalized)
}

func (s *credentialService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	identity, err := s.identityRepo.FindIdentityByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogDebug(ctx, "Password reset requested for unknown email")
			return nil
		}
		s.LogError(ctx, err, "Failed to look up identity for password reset")
		return err
	}

	token, err := s.issueToken(ctx, identity.IdentityID, domain.ActionTokenPasswordReset, s.cfg.ResetTokenExpiryDuration)
	if err != nil {
		return err
	}
	if err := s.mailer.SendPasswordReset(ctx, identity.Email, s.link(resetPasswordPath, token)); err != nil {
		s.LogError(ctx, err, "Failed to send password reset mail", slog.String("user_id", identity.IdentityID))
		return apperrors.NewAppError(502, "The password reset email could not be sent.", err)
	}
	s.LogInfo(ctx, "Password reset mail sent", slog.String("user_id", identity.IdentityID))
	return nil
}

func (s *credentialService) ResetPassword(ctx context.Context, token, password, confirm string) error {
	normalized, err := utils.ValidateNewPassword(password, confirm)
	if err != nil {
		return apperrors.NewValidationFailedError(err.Error())
	}

	consumed, err := s.actionTokenRepo.ConsumeActionToken(ctx, utils.HashToken(token), domain.ActionTokenPasswordReset, s.now())
	if err != nil {
		return err
	}
	if _, err := s.setPassword(ctx, consumed.IdentityID, normalized); err != nil {
		return err
	}
	// Sign out every other session.
	if err := s.identityRepo.ClearRefreshToken(ctx, consumed.IdentityID); err != nil {
		s.LogError(ctx, err, "Failed to revoke sessions after password reset", slog.String("user_id", consumed.IdentityID))
	}
	s.LogInfo(ctx, "Password reset", slog.String("user_id", consumed.IdentityID))
	return nil
}

func (s *credentialService) setPassword(ctx context.Context, identityID, normalized string) (*domain.Identity, error) {
	hash, err := utils.HashPassword(normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.identityRepo.UpdatePasswordHash(ctx, identityID, hash); err != nil {
		s.LogError(ctx, err, "Failed to store password", slog.String("user_id", identityID))
		return nil, err
	}
	return s.identityRepo.FindIdentityByID(ctx, identityID)
}

func (s *credentialService) issueToken(ctx context.Context, identityID string, kind domain.ActionTokenKind, ttl time.Duration) (string, error) {
	raw, err := utils.RandomToken(32)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s token: %w", kind, err)
	}
	now := s.now()
	token := domain.ActionToken{
		TokenHash:  utils.HashToken(raw),
		IdentityID: identityID,
		Kind:       kind,
		ExpiresAt:  now.Add(ttl),
		CreatedAt:  now,
	}
	if err := s.actionTokenRepo.SaveActionToken(ctx, token); err != nil {
		s.LogError(ctx, err, "Failed to store action token", slog.String("user_id", identityID), slog.String("kind", string(kind)))
		return "", err
	}
	return raw, nil
}

func (s *credentialService) link(path, token string) string {
	return s.cfg.FrontendBaseURL + path + "?" + url.Values{"token": {token}}.Encode()
}
