package services

import (
	"context"

	"github.com/SscSPs/packhouse_portal/internal/core/domain"
	"github.com/SscSPs/packhouse_portal/internal/dto"
)

// AdminUserSvcFacade is user management. Every method requires an admin actor.
type AdminUserSvcFacade interface {
	// ListUsers merges profiles with identity sign-in and ban data, newest first.
	ListUsers(ctx context.Context, actor domain.Principal) ([]domain.UserSummary, error)
	// InviteUser creates the identity, then the profile, then mails an invite.
	InviteUser(ctx context.Context, actor domain.Principal, req dto.InviteUserRequest) (*domain.UserSummary, error)
	// UpdateUserName sets a user's display name.
	UpdateUserName(ctx context.Context, actor domain.Principal, req dto.UpdateUserNameRequest) error
	// UpdateUserEmail updates the identity store, then the profile mirror.
	UpdateUserEmail(ctx context.Context, actor domain.Principal, req dto.UpdateUserEmailRequest) error
	// UpdateUserRole changes a role. Bad input is reported as a rejected result.
	UpdateUserRole(ctx context.Context, actor domain.Principal, req dto.UpdateUserRoleRequest) (domain.MutationResult, error)
	// SetUserBanned bans (for PermanentBanDuration) or unbans a user.
	SetUserBanned(ctx context.Context, actor domain.Principal, req dto.SetUserBannedRequest) error
	// DeleteUser permanently removes a user, their profile and their avatars.
	DeleteUser(ctx context.Context, actor domain.Principal, userID string) error
	// SendPasswordReset mails a reset link to email.
	SendPasswordReset(ctx context.Context, actor domain.Principal, email string) error
}
