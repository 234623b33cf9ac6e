package services

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/packhouse_portal/internal/apperrors"
	"github.com/SscSPs/packhouse_portal/internal/core/domain"
	portsrepo "github.com/SscSPs/packhouse_portal/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/packhouse_portal/internal/core/ports/services"
	"github.com/SscSPs/packhouse_portal/internal/dto"
	"github.com/google/uuid"
)

type adminUserService struct {
	BaseService
	identityRepo portsrepo.IdentityRepositoryFacade
	profileRepo  portsrepo.ProfileRepositoryFacade
	credentials  portssvc.CredentialSvcFacade
	avatars      portsrepo.AvatarStore
	now          func() time.Time
}

// NewAdminUserService creates the admin user management service.
func NewAdminUserService(
	identityRepo portsrepo.IdentityRepositoryFacade,
	profileRepo portsrepo.ProfileRepositoryFacade,
	credentials portssvc.CredentialSvcFacade,
	avatars portsrepo.AvatarStore,
) portssvc.AdminUserSvcFacade {
	return &adminUserService{
		identityRepo: identityRepo,
		profileRepo:  profileRepo,
		credentials:  credentials,
		avatars:      avatars,
		now:          time.Now,
	}
}

var _ portssvc.AdminUserSvcFacade = (*adminUserService)(nil)

func nilIfBlank(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func (s *adminUserService) ListUsers(ctx context.Context, actor domain.Principal) ([]domain.UserSummary, error) {
	if err := s.AuthorizeRole(ctx, actor, domain.RoleAdmin); err != nil {
		return nil, err
	}

	profiles, err := s.profileRepo.ListProfiles(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list profiles")
		return nil, err
	}
	identities, err := s.identityRepo.ListIdentities(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list identities")
		return nil, err
	}

	byID := make(map[string]domain.Identity, len(identities))
	for _, identity := range identities {
		byID[identity.IdentityID] = identity
	}

	now := s.now()
	users := make([]domain.UserSummary, 0, len(profiles))
	for _, profile := range profiles {
		role, err := domain.ParseRole(profile.Role)
		if err != nil {
			s.LogDebug(ctx, "Skipping profile with unknown role", slog.String("user_id", profile.ProfileID))
			continue
		}
		summary := domain.UserSummary{
			ID:        profile.ProfileID,
			Email:     profile.Email,
			Role:      role,
			FirstName: profile.FirstName,
			LastName:  profile.LastName,
			CreatedAt: profile.CreatedAt,
		}
		if identity, ok := byID[profile.ProfileID]; ok {
			summary.LastSignInAt = identity.LastSignInAt
			summary.Banned = identity.IsBanned(now)
		}
		users = append(users, summary)
	}
	return users, nil
}

func (s *adminUserService) InviteUser(ctx context.Context, actor domain.Principal, req dto.InviteUserRequest) (*domain.UserSummary, error) {
	if err := s.AuthorizeRole(ctx, actor, domain.RoleAdmin); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") || !req.Role.IsValid() {
		return nil, apperrors.NewValidationFailedError("Invalid email or role.")
	}

	now := s.now()
	userID := uuid.NewString()
	if err := s.identityRepo.SaveIdentity(ctx, domain.Identity{
		IdentityID: userID,
		Email:      email,
		CreatedAt:  now,
		UpdatedAt:  now,
	}); err != nil {
		s.LogError(ctx, err, "Failed to create identity for invite")
		return nil, err
	}

	if err := s.profileRepo.SaveProfile(ctx, domain.Profile{
		ProfileID: userID,
		Email:     &email,
		Role:      string(req.Role),
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		// The identity stays; an admin can delete it from the list.
		s.LogError(ctx, err, "Failed to create profile for invited identity", slog.String("user_id", userID))
		return nil, err
	}

	if err := s.credentials.IssueInvite(ctx, userID, email); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "User invited", slog.String("user_id", userID), slog.String("role", string(req.Role)), slog.String("invited_by", actor.UserID))
	return &domain.UserSummary{ID: userID, Email: &email, Role: req.Role, CreatedAt: now}, nil
}

func (s *adminUserService) UpdateUserName(ctx context.Context, actor domain.Principal, req dto.UpdateUserNameRequest) error {
	if err := s.AuthorizeRole(ctx, actor, domain.RoleAdmin); err != nil {
		return err
	}
	if err := checkUserID(req.ProfileID); err != nil {
		return err
	}

	if err := s.profileRepo.UpdateProfileName(ctx, req.ProfileID, nilIfBlank(req.FirstName), nilIfBlank(req.LastName)); err != nil {
		s.LogError(ctx, err, "Failed to update user name", slog.String("user_id", req.ProfileID))
		return err
	}
	return nil
}

func (s *adminUserService) UpdateUserEmail(ctx context.Context, actor domain.Principal, req dto.UpdateUserEmailRequest) error {
	if err := s.AuthorizeRole(ctx, actor, domain.RoleAdmin); err != nil {
		return err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if req.UserID == "" || email == "" {
		return apperrors.NewValidationFailedError("Missing user ID or email.")
	}
	if err := checkUserID(req.UserID); err != nil {
		return err
	}

	if err := s.identityRepo.UpdateIdentityEmail(ctx, req.UserID, email); err != nil {
		s.LogError(ctx, err, "Failed to update sign-in email", slog.String("user_id", req.UserID))
		return err
	}
	if err := s.profileRepo.UpdateProfileEmail(ctx, req.UserID, email); err != nil {
		// No rollback of the identity change.
		s.LogError(ctx, err, "Sign-in email changed but profile email was not", slog.String("user_id", req.UserID))
		return apperrors.NewAppError(http.StatusInternalServerError, "Failed to update the user's profile email.", err)
	}
	return nil
}

func (s *adminUserService) UpdateUserRole(ctx context.Context, actor domain.Principal, req dto.UpdateUserRoleRequest) (domain.MutationResult, error) {
	if err := s.AuthorizeRole(ctx, actor, domain.RoleAdmin); err != nil {
		return domain.MutationResult{}, err
	}
	if req.ProfileID == "" {
		return domain.Rejected("", domain.ReasonMissingFields), nil
	}
	if !isUUID(req.ProfileID) {
		return domain.Rejected(req.ProfileID, domain.ReasonUnknownUser), nil
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		s.LogDebug(ctx, "Ignoring role change to unknown role", slog.String("user_id", req.ProfileID), slog.String("role", req.Role))
		return domain.Rejected(req.ProfileID, domain.ReasonInvalidRole), nil
	}

	if err := s.profileRepo.UpdateProfileRole(ctx, req.ProfileID, role); err != nil {
		s.LogError(ctx, err, "Failed to update user role", slog.String("user_id", req.ProfileID))
		return domain.Rejected(req.ProfileID, domain.ReasonStoreError), nil
	}

	s.LogInfo(ctx, "User role changed", slog.String("user_id", req.ProfileID), slog.String("role", string(role)), slog.String("changed_by", actor.UserID))
	return domain.Applied(req.ProfileID), nil
}

func (s *adminUserService) SetUserBanned(ctx context.Context, actor domain.Principal, req dto.SetUserBannedRequest) error {
	if err := s.AuthorizeRole(ctx, actor, domain.RoleAdmin); err != nil {
		return err
	}
	if err := checkUserID(req.UserID); err != nil {
		return err
	}

	var until *time.Time
	if req.Banned {
		t := s.now().Add(domain.PermanentBanDuration)
		until = &t
	}
	if err := s.identityRepo.SetBannedUntil(ctx, req.UserID, until); err != nil {
		s.LogError(ctx, err, "Failed to change ban", slog.String("user_id", req.UserID))
		return err
	}

	s.LogInfo(ctx, "User ban changed", slog.String("user_id", req.UserID), slog.Bool("banned", req.Banned))
	return nil
}

func (s *adminUserService) DeleteUser(ctx context.Context, actor domain.Principal, userID string) error {
	if err := s.AuthorizeRole(ctx, actor, domain.RoleAdmin); err != nil {
		return err
	}
	if err := checkUserID(userID); err != nil {
		return err
	}

	if err := s.identityRepo.DeleteIdentity(ctx, userID); err != nil {
		s.LogError(ctx, err, "Failed to delete user", slog.String("user_id", userID))
		return err
	}
	if s.avatars != nil {
		if err := s.avatars.RemovePrefix(ctx, userID+"/"); err != nil {
			s.LogError(ctx, err, "Failed to remove avatars of deleted user", slog.String("user_id", userID))
		}
	}

	s.LogInfo(ctx, "User deleted", slog.String("user_id", userID), slog.String("deleted_by", actor.UserID))
	return nil
}

func (s *adminUserService) SendPasswordReset(ctx context.Context, actor domain.Principal, email string) error {
	if err := s.AuthorizeRole(ctx, actor, domain.RoleAdmin); err != nil {
		return err
	}
	if strings.TrimSpace(email) == "" {
		return apperrors.NewValidationFailedError("Missing email.")
	}
	return s.credentials.RequestPasswordReset(ctx, email)
}
