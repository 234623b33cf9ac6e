package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/packhouse_portal/internal/core/ports/services"
	"github.com/SscSPs/packhouse_portal/internal/dto"
	"github.com/SscSPs/packhouse_portal/internal/middleware"
	"github.com/gin-gonic/gin"
)

const (
	settingsPage    = "/settings"
	avatarFormField = "avatar"
)

// settingsHandler serves the caller's own account page.
type settingsHandler struct {
	settings portssvc.SettingsSvcFacade
}

func registerSettingsRoutes(r *gin.Engine, manager *middleware.SessionManager, settings portssvc.SettingsSvcFacade) {
	h := &settingsHandler{settings: settings}

	s := r.Group(settingsPage, manager.AuthRequired())
	{
		s.GET("", h.page)
		s.POST("/name", h.updateName)
		s.POST("/password", h.updatePassword)
		s.POST("/avatar", h.uploadAvatar)
		s.POST("/avatar/delete", h.deleteAvatar)
	}
}

// page godoc
// @Summary Account settings
// @Tags settings
// @Produce json
// @Param success query string false "Success banner"
// @Param error query string false "Error banner"
// @Success 200 {object} dto.SettingsPageResponse
// @Router /settings [get]
func (h *settingsHandler) page(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}

	settings, err := h.settings.GetSettings(c.Request.Context(), p.UserID)
	if err != nil {
		pageFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SettingsPageResponse{
		Principal: dto.ToPrincipalResponse(p),
		Settings:  dto.ToSettingsResponse(settings),
		Success:   c.Query("success"),
		Error:     c.Query("error"),
	})
}

// updateName godoc
// @Summary Change display name
// @Tags settings
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param name body dto.UpdateDisplayNameRequest true "Name"
// @Success 200 {object} dto.ActionResponse
// @Success 303 "Redirect to /settings with a banner"
// @Router /settings/name [post]
func (h *settingsHandler) updateName(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}

	var req dto.UpdateDisplayNameRequest
	if err := c.ShouldBind(&req); err != nil {
		actionFailed(c, settingsPage, errInvalidRequest)
		return
	}
	if err := h.settings.UpdateDisplayName(c.Request.Context(), p.UserID, req); err != nil {
		actionFailed(c, settingsPage, err)
		return
	}
	actionDone(c, settingsPage, dto.ActionResponse{Applied: true}, "Name updated")
}

// updatePassword godoc
// @Summary Change password
// @Tags settings
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param password body dto.UpdatePasswordRequest true "New password"
// @Success 200 {object} dto.ActionResponse
// @Success 303 "Redirect to /settings with a banner"
// @Failure 400 {object} ErrorResponse
// @Router /settings/password [post]
func (h *settingsHandler) updatePassword(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}

	var req dto.UpdatePasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		actionFailed(c, settingsPage, errInvalidRequest)
		return
	}
	if err := h.settings.UpdatePassword(c.Request.Context(), p.UserID, req); err != nil {
		actionFailed(c, settingsPage, err)
		return
	}
	actionDone(c, settingsPage, dto.ActionResponse{Applied: true}, "Password updated")
}

// uploadAvatar godoc
// @Summary Upload a profile picture
// @Tags settings
// @Accept multipart/form-data
// @Produce json
// @Param avatar formData file true "Image file"
// @Success 200 {object} dto.ActionResponse
// @Success 303 "Redirect to /settings with a banner"
// @Failure 400 {object} ErrorResponse
// @Router /settings/avatar [post]
func (h *settingsHandler) uploadAvatar(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}

	var upload dto.AvatarUpload
	if header, err := c.FormFile(avatarFormField); err == nil {
		file, err := header.Open()
		if err != nil {
			actionFailed(c, settingsPage, err)
			return
		}
		defer file.Close()

		upload = dto.AvatarUpload{
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        file,
		}
	} else {
		middleware.GetLoggerFromCtx(c.Request.Context()).Debug("No avatar file in request", slog.String("error", err.Error()))
	}

	url, err := h.settings.UploadAvatar(c.Request.Context(), p.UserID, upload)
	if err != nil {
		actionFailed(c, settingsPage, err)
		return
	}
	actionDone(c, settingsPage, dto.ActionResponse{Applied: true, ID: url}, "Photo updated")
}

// deleteAvatar godoc
// @Summary Remove the profile picture
// @Tags settings
// @Produce json
// @Success 200 {object} dto.ActionResponse
// @Success 303 "Redirect to /settings with a banner"
// @Router /settings/avatar/delete [post]
func (h *settingsHandler) deleteAvatar(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}

	if err := h.settings.DeleteAvatar(c.Request.Context(), p.UserID); err != nil {
		actionFailed(c, settingsPage, err)
		return
	}
	actionDone(c, settingsPage, dto.ActionResponse{Applied: true}, "Photo deleted")
}
