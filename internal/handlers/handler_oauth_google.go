package handlers

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/packhouse_portal/internal/apperrors"
	portssvc "github.com/SscSPs/packhouse_portal/internal/core/ports/services"
	"github.com/SscSPs/packhouse_portal/internal/middleware"
	"github.com/SscSPs/packhouse_portal/internal/utils"
	"github.com/gin-gonic/gin"
)

const (
	oauthStateCookie = "oauth_state"
	oauthNextCookie  = "oauth_next"
	oauthCookiePath  = "/auth/google"
	oauthCookieTTL   = 600 // seconds
)

// GoogleOAuthHandler signs in already provisioned users through Google.
type GoogleOAuthHandler struct {
	googleOAuthService portssvc.GoogleOAuthHandlerSvcFacade
	sessions           portssvc.SessionSvcFacade
	manager            *middleware.SessionManager
}

// NewGoogleOAuthHandler creates a new instance of GoogleOAuthHandler.
func NewGoogleOAuthHandler(services *portssvc.ServiceContainer, manager *middleware.SessionManager) *GoogleOAuthHandler {
	return &GoogleOAuthHandler{
		googleOAuthService: services.GoogleOAuth,
		sessions:           services.Session,
		manager:            manager,
	}
}

// registerGoogleOAuthRoutes registers the Google OAuth routes.
func registerGoogleOAuthRoutes(r *gin.Engine, h *GoogleOAuthHandler) {
	googleRoutes := r.Group("/auth/google")
	{
		googleRoutes.GET("/login", h.LoginGoogle)
		googleRoutes.GET("/callback", h.CallbackGoogle)
	}
}

func (h *GoogleOAuthHandler) setFlowCookie(c *gin.Context, name, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     oauthCookiePath,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.manager.Cookies().Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// failed sends the browser back to the login page with message as the error banner.
func (h *GoogleOAuthHandler) failed(c *gin.Context, message string) {
	seeOther(c, withBanner(middleware.LoginPath, "error", message))
}

// LoginGoogle godoc
// @Summary Start Google sign-in
// @Description Redirects to Google's consent page. The CSRF state is kept in a short-lived cookie.
// @Tags oauth
// @Param next query string false "Path to return to after sign-in"
// @Success 302 "Redirect to Google"
// @Success 303 "Redirect to /login when Google sign-in is unavailable"
// @Router /auth/google/login [get]
func (h *GoogleOAuthHandler) LoginGoogle(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	if !h.googleOAuthService.IsConfigured() {
		h.failed(c, "Google sign-in is not available.")
		return
	}

	state, err := h.googleOAuthService.GenerateStateString(ctx)
	if err != nil {
		logger.Error("Failed to generate OAuth state", slog.String("error", err.Error()))
		h.failed(c, "Could not start Google sign-in.")
		return
	}

	h.setFlowCookie(c, oauthStateCookie, state, oauthCookieTTL)
	h.setFlowCookie(c, oauthNextCookie, utils.SafeNextPath(c.Query("next")), oauthCookieTTL)
	c.Redirect(http.StatusFound, h.googleOAuthService.GetGoogleLoginURL(ctx, state))
}

// CallbackGoogle godoc
// @Summary Google sign-in callback
// @Description Exchanges the authorization code, validates the ID token and signs in the identity with the verified email.
// @Tags oauth
// @Param state query string true "OAuth state"
// @Param code query string true "Authorization code"
// @Success 303 "Redirect to the requested page, or to /login with an error banner"
// @Router /auth/google/callback [get]
func (h *GoogleOAuthHandler) CallbackGoogle(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	expected, _ := c.Cookie(oauthStateCookie)
	next, _ := c.Cookie(oauthNextCookie)
	h.setFlowCookie(c, oauthStateCookie, "", -1)
	h.setFlowCookie(c, oauthNextCookie, "", -1)

	state := c.Query("state")
	if expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(state)) != 1 {
		logger.Warn("OAuth state mismatch")
		h.failed(c, "Google sign-in expired. Please try again.")
		return
	}
	if errParam := c.Query("error"); errParam != "" {
		logger.Info("Google sign-in was cancelled", slog.String("reason", errParam))
		h.failed(c, "Google sign-in was cancelled.")
		return
	}

	code := c.Query("code")
	if code == "" {
		h.failed(c, "Authorization code is required.")
		return
	}

	oauth2Token, err := h.googleOAuthService.ExchangeCodeForToken(ctx, code)
	if err != nil {
		logger.Error("Failed to exchange authorization code with Google", slog.String("error", err.Error()))
		message := "Failed to communicate with Google."
		if strings.Contains(strings.ToLower(err.Error()), "invalid_grant") {
			message = "Invalid or expired authorization code provided by Google."
		}
		h.failed(c, message)
		return
	}

	idTokenString, ok := oauth2Token.Extra("id_token").(string)
	if !ok || idTokenString == "" {
		logger.Error("ID token not found in Google's token response")
		h.failed(c, "Failed to retrieve ID token from Google.")
		return
	}

	payload, err := h.googleOAuthService.ValidateGoogleIDToken(ctx, idTokenString)
	if err != nil {
		logger.Error("Google ID token validation failed", slog.String("error", err.Error()))
		h.failed(c, "Invalid Google ID token.")
		return
	}

	email, _ := payload.Claims["email"].(string)
	emailVerified, _ := payload.Claims["email_verified"].(bool)
	if email == "" || !emailVerified {
		logger.Warn("Google account has no verified email", slog.String("google_user_id", payload.Subject))
		h.failed(c, "Your Google account email is not verified.")
		return
	}

	session, err := h.sessions.SignInWithVerifiedEmail(ctx, email)
	if err != nil {
		logger.Warn("Google sign-in refused", slog.String("error", err.Error()))
		h.failed(c, apperrors.UserMessage(err))
		return
	}
	h.manager.Cookies().Set(c, session)

	logger.Info("User signed in with Google", slog.String("user_id", session.IdentityID))
	seeOther(c, utils.SafeNextPath(next))
}
