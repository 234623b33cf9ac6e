package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/packhouse_portal/internal/apperrors"
	portssvc "github.com/SscSPs/packhouse_portal/internal/core/ports/services"
	"github.com/SscSPs/packhouse_portal/internal/platform/config"
	"github.com/SscSPs/packhouse_portal/internal/utils"
)

// tokenService implements the TokenSvcFacade for handling JWT and refresh tokens.
type tokenService struct {
	BaseService
	cfg *config.Config
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config) portssvc.TokenSvcFacade {
	return &tokenService{cfg: cfg}
}

var _ portssvc.TokenSvcFacade = (*tokenService)(nil)

// GenerateAccessToken creates a new JWT access token for the given identity.
func (s *tokenService) GenerateAccessToken(ctx context.Context, identityID string) (string, time.Time, error) {
	accessToken, expiresAt, err := utils.SignAccessToken(identityID, s.cfg.JWTSecret, s.cfg.JWTIssuer, time.Now(), s.cfg.JWTExpiryDuration)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	return accessToken, expiresAt, nil
}

// GenerateRefreshToken creates a new opaque refresh token.
func (s *tokenService) GenerateRefreshToken(ctx context.Context) (string, time.Time, error) {
	rawRefreshToken, err := utils.RandomToken(32)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return rawRefreshToken, time.Now().Add(s.cfg.RefreshTokenExpiryDuration), nil
}

// ParseAccessToken validates signature, expiry and issuer and returns the subject.
func (s *tokenService) ParseAccessToken(ctx context.Context, accessToken string) (string, error) {
	identityID, err := utils.ParseAccessToken(accessToken, s.cfg.JWTSecret, s.cfg.JWTIssuer)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
	}
	return identityID, nil
}
