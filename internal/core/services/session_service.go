package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/packhouse_portal/internal/apperrors"
	"github.com/SscSPs/packhouse_portal/internal/core/domain"
	portsrepo "github.com/SscSPs/packhouse_portal/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/packhouse_portal/internal/core/ports/services"
	"github.com/SscSPs/packhouse_portal/internal/utils"
)

const invalidCredentialsMessage = "Invalid login credentials"

type sessionService struct {
	BaseService
	identityRepo portsrepo.IdentityRepositoryFacade
	tokens       portssvc.TokenSvcFacade
	now          func() time.Time
}

// NewSessionService creates the service that signs identities in and keeps their sessions fresh.
func NewSessionService(identityRepo portsrepo.IdentityRepositoryFacade, tokens portssvc.TokenSvcFacade) portssvc.SessionSvcFacade {
	return &sessionService{
		identityRepo: identityRepo,
		tokens:       tokens,
		now:          time.Now,
	}
}

var _ portssvc.SessionSvcFacade = (*sessionService)(nil)

func bannedError() error {
	return apperrors.NewAppError(http.StatusForbidden, "User is banned", apperrors.ErrBanned)
}

func (s *sessionService) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	identity, err := s.identityRepo.FindIdentityByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewUnauthorizedError(invalidCredentialsMessage)
		}
		s.LogError(ctx, err, "Failed to look up identity for sign-in")
		return nil, err
	}

	if identity.PasswordHash == nil || !utils.CheckPasswordHash(utils.NormalizePassword(password), *identity.PasswordHash) {
		s.LogInfo(ctx, "Rejected sign-in with wrong password", slog.String("user_id", identity.IdentityID))
		return nil, apperrors.NewUnauthorizedError(invalidCredentialsMessage)
	}

	return s.signIn(ctx, identity)
}

func (s *sessionService) SignInWithVerifiedEmail(ctx context.Context, email string) (*domain.Session, error) {
	identity, err := s.identityRepo.FindIdentityByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewUnauthorizedError("No account exists for this email. Ask an administrator for an invite.")
		}
		s.LogError(ctx, err, "Failed to look up identity for external sign-in")
		return nil, err
	}
	return s.signIn(ctx, identity)
}

func (s *sessionService) signIn(ctx context.Context, identity *domain.Identity) (*domain.Session, error) {
	now := s.now()
	if identity.IsBanned(now) {
		s.LogInfo(ctx, "Rejected sign-in of banned identity", slog.String("user_id", identity.IdentityID))
		return nil, bannedError()
	}

	session, err := s.newSession(ctx, identity.IdentityID)
	if err != nil {
		return nil, err
	}
	if err := s.identityRepo.UpdateRefreshToken(ctx, identity.IdentityID, utils.HashToken(session.RefreshToken), session.RefreshTokenExpiresAt); err != nil {
		s.LogError(ctx, err, "Failed to store refresh token", slog.String("user_id", identity.IdentityID))
		return nil, err
	}
	if err := s.identityRepo.RecordSignIn(ctx, identity.IdentityID, now); err != nil {
		// The session is already valid; a missed timestamp only affects the admin list.
		s.LogError(ctx, err, "Failed to record sign-in time", slog.String("user_id", identity.IdentityID))
	}

	s.LogInfo(ctx, "Identity signed in", slog.String("user_id", identity.IdentityID))
	return session, nil
}

func (s *sessionService) newSession(ctx context.Context, identityID string) (*domain.Session, error) {
	accessToken, accessExpiry, err := s.tokens.GenerateAccessToken(ctx, identityID)
	if err != nil {
		s.LogError(ctx, err, "Failed to generate access token", slog.String("user_id", identityID))
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, refreshExpiry, err := s.tokens.GenerateRefreshToken(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to generate refresh token", slog.String("user_id", identityID))
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return &domain.Session{
		IdentityID:            identityID,
		AccessToken:           accessToken,
		AccessTokenExpiresAt:  accessExpiry,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: refreshExpiry,
	}, nil
}

// Authenticate checks the access token first and falls back to rotating the refresh token.
func (s *sessionService) Authenticate(ctx context.Context, tokens domain.SessionTokens) (*domain.Resolution, error) {
	if tokens.IsEmpty() {
		return &domain.Resolution{}, nil
	}

	if tokens.AccessToken != "" {
		identityID, err := s.tokens.ParseAccessToken(ctx, tokens.AccessToken)
		if err == nil {
			return s.liveIdentity(ctx, identityID)
		}
		s.LogDebug(ctx, "Access token rejected", slog.String("error", err.Error()))
	}

	if tokens.RefreshToken == "" {
		return &domain.Resolution{Revoked: true}, nil
	}
	return s.refresh(ctx, tokens.RefreshToken)
}

func (s *sessionService) liveIdentity(ctx context.Context, identityID string) (*domain.Resolution, error) {
	identity, err := s.identityRepo.FindIdentityByID(ctx, identityID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &domain.Resolution{Revoked: true}, nil
		}
		return nil, err
	}
	if identity.IsBanned(s.now()) {
		return &domain.Resolution{Revoked: true}, nil
	}
	return &domain.Resolution{IdentityID: identity.IdentityID, Identity: identity}, nil
}

func (s *sessionService) refresh(ctx context.Context, refreshToken string) (*domain.Resolution, error) {
	oldHash := utils.HashToken(refreshToken)
	identity, err := s.identityRepo.FindIdentityByRefreshTokenHash(ctx, oldHash)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Either revoked or already rotated by a concurrent request whose
			// response carries the new cookies; leave the browser's cookies alone.
			return &domain.Resolution{}, nil
		}
		return nil, err
	}

	now := s.now()
	if identity.RefreshTokenExpiresAt == nil || !identity.RefreshTokenExpiresAt.After(now) {
		if err := s.identityRepo.ClearRefreshToken(ctx, identity.IdentityID); err != nil {
			s.LogError(ctx, err, "Failed to clear expired refresh token", slog.String("user_id", identity.IdentityID))
		}
		return &domain.Resolution{Revoked: true}, nil
	}
	if identity.IsBanned(now) {
		return &domain.Resolution{Revoked: true}, nil
	}

	session, err := s.newSession(ctx, identity.IdentityID)
	if err != nil {
		return nil, err
	}
	rotated, err := s.identityRepo.RotateRefreshToken(ctx, identity.IdentityID, oldHash, utils.HashToken(session.RefreshToken), session.RefreshTokenExpiresAt)
	if err != nil {
		s.LogError(ctx, err, "Failed to rotate refresh token", slog.String("user_id", identity.IdentityID))
		return nil, err
	}
	if !rotated {
		s.LogDebug(ctx, "Refresh token rotated by a concurrent request", slog.String("user_id", identity.IdentityID))
		return &domain.Resolution{}, nil
	}

	s.LogDebug(ctx, "Session refreshed", slog.String("user_id", identity.IdentityID))
	return &domain.Resolution{IdentityID: identity.IdentityID, Identity: identity, Refreshed: session}, nil
}

func (s *sessionService) SignOut(ctx context.Context, identityID string) error {
	if identityID == "" {
		return nil
	}
	if err := s.identityRepo.ClearRefreshToken(ctx, identityID); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to clear refresh token on sign-out", slog.String("user_id", identityID))
		return err
	}
	return nil
}
