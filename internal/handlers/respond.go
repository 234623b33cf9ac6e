package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/SscSPs/packhouse_portal/internal/apperrors"
	"github.com/SscSPs/packhouse_portal/internal/core/domain"
	"github.com/SscSPs/packhouse_portal/internal/dto"
	"github.com/SscSPs/packhouse_portal/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the JSON body of a failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// wantsJSON reports whether the caller asked for a JSON answer instead of a redirect.
func wantsJSON(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "application/json") ||
		c.ContentType() == gin.MIMEJSON
}

// withBanner appends a banner query parameter (error or success) to path.
func withBanner(path, key, message string) string {
	if message == "" {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + url.Values{key: {message}}.Encode()
}

// seeOther finishes a form post with a 303 so a reload does not resubmit it.
func seeOther(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}

// actionFailed reports err to a form post: JSON callers get the status and message,
// browsers are sent back to page with the message as an error banner.
func actionFailed(c *gin.Context, page string, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := apperrors.StatusCode(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Action failed", slog.String("error", err.Error()))
	} else {
		logger.Warn("Action rejected", slog.String("error", err.Error()))
	}

	message := apperrors.UserMessage(err)
	if wantsJSON(c) {
		c.JSON(status, ErrorResponse{Error: message})
		return
	}
	seeOther(c, withBanner(page, "error", message))
}

// actionDone reports a finished form post. success, when set, becomes the banner.
func actionDone(c *gin.Context, page string, resp dto.ActionResponse, success string) {
	if wantsJSON(c) {
		if resp.Message == "" {
			resp.Message = success
		}
		c.JSON(http.StatusOK, resp)
		return
	}
	seeOther(c, withBanner(page, "success", success))
}

// pageFailed answers a page load that could not be assembled.
func pageFailed(c *gin.Context, err error) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to load page", slog.String("error", err.Error()))
	c.JSON(apperrors.StatusCode(err), ErrorResponse{Error: apperrors.UserMessage(err)})
}

// principalOrAbort returns the admitted principal. Routes are always registered
// behind a guard, so a miss is a wiring error.
func principalOrAbort(c *gin.Context) (*domain.Principal, bool) {
	p, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Principal not found in context")
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return nil, false
	}
	return p, true
}
