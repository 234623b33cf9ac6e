package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/packhouse_portal/internal/apperrors"
	"github.com/SscSPs/packhouse_portal/internal/core/domain"
	portsrepo "github.com/SscSPs/packhouse_portal/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/packhouse_portal/internal/core/ports/services"
)

type identityResolver struct {
	BaseService
	sessions    portssvc.SessionSvcFacade
	profileRepo portsrepo.ProfileReader
}

// NewIdentityResolver creates the resolver that turns session cookies into a Principal.
func NewIdentityResolver(sessions portssvc.SessionSvcFacade, profileRepo portsrepo.ProfileReader) portssvc.IdentityResolverSvc {
	return &identityResolver{sessions: sessions, profileRepo: profileRepo}
}

var _ portssvc.IdentityResolverSvc = (*identityResolver)(nil)

func (r *identityResolver) Resolve(ctx context.Context, tokens domain.SessionTokens) (*domain.Resolution, error) {
	res, err := r.sessions.Authenticate(ctx, tokens)
	if err != nil {
		return nil, err
	}
	if !res.HasSession() {
		return res, nil
	}

	profile, err := r.profileRepo.FindProfileByID(ctx, res.IdentityID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			r.GetLogger(ctx).Warn("Session has no profile", slog.String("user_id", res.IdentityID))
			return res, nil
		}
		return nil, err
	}

	role, err := domain.ParseRole(profile.Role)
	if err != nil {
		r.GetLogger(ctx).Warn("Profile has an unknown role", slog.String("user_id", res.IdentityID), slog.String("role", profile.Role))
		return res, nil
	}

	p := &domain.Principal{
		UserID:    profile.ProfileID,
		Email:     profile.Email,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		Role:      role,
		CreatedAt: profile.CreatedAt,
	}
	if res.Identity != nil {
		p.LastSignInAt = res.Identity.LastSignInAt
		if p.Email == nil {
			email := res.Identity.Email
			p.Email = &email
		}
	}
	res.Principal = p
	return res, nil
}
