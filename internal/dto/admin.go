package dto

import "github.com/SscSPs/packhouse_portal/internal/core/domain"

// InviteUserRequest invites a new user with a role.
type InviteUserRequest struct {
	Email string      `json:"email" form:"email" binding:"required,email"`
	Role  domain.Role `json:"role" form:"role" binding:"required,role"`
}

// UpdateUserNameRequest sets a user's display name. Blank parts are cleared.
type UpdateUserNameRequest struct {
	ProfileID string `json:"profileId" form:"profile_id"`
	FirstName string `json:"firstName" form:"first_name"`
	LastName  string `json:"lastName" form:"last_name"`
}

// UpdateUserEmailRequest changes a user's email.
type UpdateUserEmailRequest struct {
	UserID string `json:"userId" form:"user_id"`
	Email  string `json:"email" form:"email"`
}

// UpdateUserRoleRequest changes a user's role from the inline selector.
// Role is validated by the service so that bad values are ignored, not rejected.
type UpdateUserRoleRequest struct {
	ProfileID string `json:"profileId" form:"profile_id"`
	Role      string `json:"role" form:"role"`
}

// SetUserBannedRequest bans or unbans a user.
type SetUserBannedRequest struct {
	UserID string `json:"userId" form:"user_id"`
	Banned bool   `json:"banned" form:"banned"`
}

// UserIDRequest identifies the target of delete.
type UserIDRequest struct {
	UserID string `json:"userId" form:"user_id"`
}

// SendPasswordResetRequest triggers a reset mail for an email.
type SendPasswordResetRequest struct {
	Email string `json:"email" form:"email"`
}
