package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/packhouse_portal/internal/apperrors"
	"github.com/SscSPs/packhouse_portal/internal/core/domain"
	portssvc "github.com/SscSPs/packhouse_portal/internal/core/ports/services"
	"github.com/SscSPs/packhouse_portal/internal/dto"
	"github.com/SscSPs/packhouse_portal/internal/middleware"
	"github.com/gin-gonic/gin"
)

const adminUsersPage = "/admin/users"

// adminHandler serves user management. Every route is admin only.
type adminHandler struct {
	admin portssvc.AdminUserSvcFacade
}

func registerAdminRoutes(r *gin.Engine, manager *middleware.SessionManager, admin portssvc.AdminUserSvcFacade) {
	h := &adminHandler{admin: admin}

	users := r.Group(adminUsersPage, manager.RoleRequired(domain.RoleAdmin))
	{
		users.GET("", h.listUsers)
		users.POST("/invite", h.inviteUser)
		users.POST("/name", h.updateName)
		users.POST("/email", h.updateEmail)
		users.POST("/role", h.updateRole)
		users.POST("/ban", h.setBanned)
		users.POST("/delete", h.deleteUser)
		users.POST("/password-reset", h.sendPasswordReset)
	}
}

var errInvalidRequest = apperrors.NewValidationFailedError("Invalid request.")

// listUsers godoc
// @Summary List users
// @Description All users with a valid role, newest first.
// @Tags admin
// @Produce json
// @Success 200 {object} dto.AdminUsersPageResponse
// @Success 303 "Redirect for non-admins"
// @Router /admin/users [get]
func (h *adminHandler) listUsers(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}

	users, err := h.admin.ListUsers(c.Request.Context(), *p)
	if err != nil {
		pageFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.AdminUsersPageResponse{
		Principal: dto.ToPrincipalResponse(p),
		Users:     dto.ToUserSummaryResponses(users),
		Roles:     dto.ToRoleOptions(domain.AllRoles),
	})
}

// inviteUser godoc
// @Summary Invite a user
// @Tags admin
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param invite body dto.InviteUserRequest true "Email and role"
// @Success 200 {object} dto.ActionResponse
// @Success 303 "Redirect to /admin/users"
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /admin/users/invite [post]
func (h *adminHandler) inviteUser(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}

	var req dto.InviteUserRequest
	if err := c.ShouldBind(&req); err != nil {
		actionFailed(c, adminUsersPage, apperrors.NewValidationFailedError("Invalid email or role."))
		return
	}

	user, err := h.admin.InviteUser(c.Request.Context(), *p, req)
	if err != nil {
		actionFailed(c, adminUsersPage, err)
		return
	}
	actionDone(c, adminUsersPage, dto.ActionResponse{Applied: true, ID: user.ID}, "Invite sent")
}

// updateName godoc
// @Summary Update a user's name
// @Tags admin
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param name body dto.UpdateUserNameRequest true "Name"
// @Success 200 {object} dto.ActionResponse
// @Success 303 "Redirect to /admin/users"
// @Failure 400 {object} ErrorResponse
// @Router /admin/users/name [post]
func (h *adminHandler) updateName(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}

	var req dto.UpdateUserNameRequest
	if err := c.ShouldBind(&req); err != nil {
		actionFailed(c, adminUsersPage, errInvalidRequest)
		return
	}
	if err := h.admin.UpdateUserName(c.Request.Context(), *p, req); err != nil {
		actionFailed(c, adminUsersPage, err)
		return
	}
	actionDone(c, adminUsersPage, dto.ActionResponse{Applied: true, ID: req.ProfileID}, "Name updated")
}

// updateEmail godoc
// @Summary Update a user's email
// @Tags admin
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param email body dto.UpdateUserEmailRequest true "Email"
// @Success 200 {object} dto.ActionResponse
// @Success 303 "Redirect to /admin/users"
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /admin/users/email [post]
func (h *adminHandler) updateEmail(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}

	var req dto.UpdateUserEmailRequest
	if err := c.ShouldBind(&req); err != nil {
		actionFailed(c, adminUsersPage, errInvalidRequest)
		return
	}
	if err := h.admin.UpdateUserEmail(c.Request.Context(), *p, req); err != nil {
		actionFailed(c, adminUsersPage, err)
		return
	}
	actionDone(c, adminUsersPage, dto.ActionResponse{Applied: true, ID: req.UserID}, "Email updated")
}

// updateRole godoc
// @Summary Change a user's role
// @Description Inline role selector. Invalid roles and store failures are logged and otherwise ignored.
// @Tags admin
// @Accept json,x-www-form-urlencoded
// @Param role body dto.UpdateUserRoleRequest true "Role"
// @Success 204
// @Success 303 "Redirect to /admin/users"
// @Router /admin/users/role [post]
func (h *adminHandler) updateRole(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateUserRoleRequest
	if err := c.ShouldBind(&req); err != nil {
		logger.Warn("Failed to bind role change", slog.String("error", err.Error()))
	}

	result, err := h.admin.UpdateUserRole(c.Request.Context(), *p, req)
	switch {
	case err != nil:
		logger.Error("Role change failed", slog.String("error", err.Error()))
	case !result.Applied:
		logger.Warn("Role change ignored", slog.String("profile_id", req.ProfileID), slog.String("reason", result.Reason))
	}

	if wantsJSON(c) {
		c.Status(http.StatusNoContent)
		return
	}
	seeOther(c, adminUsersPage)
}

// setBanned godoc
// @Summary Ban or unban a user
// @Tags admin
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param ban body dto.SetUserBannedRequest true "Ban flag"
// @Success 200 {object} dto.ActionResponse
// @Success 303 "Redirect to /admin/users"
// @Failure 400 {object} ErrorResponse
// @Router /admin/users/ban [post]
func (h *adminHandler) setBanned(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}

	var req dto.SetUserBannedRequest
	if err := c.ShouldBind(&req); err != nil {
		actionFailed(c, adminUsersPage, errInvalidRequest)
		return
	}
	if err := h.admin.SetUserBanned(c.Request.Context(), *p, req); err != nil {
		actionFailed(c, adminUsersPage, err)
		return
	}

	message := "User unbanned"
	if req.Banned {
		message = "User banned"
	}
	actionDone(c, adminUsersPage, dto.ActionResponse{Applied: true, ID: req.UserID}, message)
}

// deleteUser godoc
// @Summary Delete a user
// @Description Permanently removes the user, their profile and their avatar images.
// @Tags admin
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param user body dto.UserIDRequest true "User"
// @Success 200 {object} dto.ActionResponse
// @Success 303 "Redirect to /admin/users"
// @Failure 400 {object} ErrorResponse
// @Router /admin/users/delete [post]
func (h *adminHandler) deleteUser(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}

	var req dto.UserIDRequest
	if err := c.ShouldBind(&req); err != nil {
		actionFailed(c, adminUsersPage, errInvalidRequest)
		return
	}
	if err := h.admin.DeleteUser(c.Request.Context(), *p, req.UserID); err != nil {
		actionFailed(c, adminUsersPage, err)
		return
	}
	actionDone(c, adminUsersPage, dto.ActionResponse{Applied: true, ID: req.UserID}, "User deleted")
}

// sendPasswordReset godoc
// @Summary Send a password reset mail
// @Tags admin
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param reset body dto.SendPasswordResetRequest true "Email"
// @Success 200 {object} dto.ActionResponse
// @Success 303 "Redirect to /admin/users"
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse "Mail delivery failed"
// @Router /admin/users/password-reset [post]
func (h *adminHandler) sendPasswordReset(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}

	var req dto.SendPasswordResetRequest
	if err := c.ShouldBind(&req); err != nil {
		actionFailed(c, adminUsersPage, errInvalidRequest)
		return
	}
	if err := h.admin.SendPasswordReset(c.Request.Context(), *p, req.Email); err != nil {
		actionFailed(c, adminUsersPage, err)
		return
	}
	actionDone(c, adminUsersPage, dto.ActionResponse{Applied: true}, "Password reset sent")
}
