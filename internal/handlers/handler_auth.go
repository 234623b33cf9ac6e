package handlers

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/SscSPs/packhouse_portal/internal/apperrors"
	"github.com/SscSPs/packhouse_portal/internal/core/domain"
	portssvc "github.com/SscSPs/packhouse_portal/internal/core/ports/services"
	"github.com/SscSPs/packhouse_portal/internal/dto"
	"github.com/SscSPs/packhouse_portal/internal/middleware"
	"github.com/SscSPs/packhouse_portal/internal/platform/config"
	"github.com/SscSPs/packhouse_portal/internal/utils"
	"github.com/gin-gonic/gin"
)

const (
	defaultLoginRate     = "5-M"
	recoverSentMessage   = "If an account exists for this email, a reset link has been sent."
	passwordResetMessage = "Password updated. Please sign in."
	missingLoginMessage  = "Email and password are required."
	signUpDoneMessage    = "Account created. You can now log in."
)

// SignUpPath is the self-service registration route. It is public.
const SignUpPath = "/signup"

// AuthHandler serves sign-in, sign-out and the one-time token flows.
type AuthHandler struct {
	sessions    portssvc.SessionSvcFacade
	credentials portssvc.CredentialSvcFacade
	google      portssvc.GoogleOAuthHandlerSvcFacade
	manager     *middleware.SessionManager
	frontendURL string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(services *portssvc.ServiceContainer, manager *middleware.SessionManager, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		sessions:    services.Session,
		credentials: services.Credential,
		google:      services.GoogleOAuth,
		manager:     manager,
		frontendURL: cfg.FrontendBaseURL,
	}
}

// newRateLimitMiddleware builds a per-IP limiter from a formatted rate such as "5-M".
func newRateLimitMiddleware(formatted string) gin.HandlerFunc {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		slog.Warn("Invalid rate limit, using default", slog.String("rate", formatted), slog.String("default", defaultLoginRate))
		rate, _ = limiter.NewRateFromFormatted(defaultLoginRate)
	}
	return middleware.RateLimit(limiter.New(memory.NewStore(), rate))
}

// registerAuthRoutes sets up the login page routes and the public /auth routes.
func registerAuthRoutes(r *gin.Engine, h *AuthHandler, loginRate string) {
	limit := newRateLimitMiddleware(loginRate)

	r.GET(middleware.LoginPath, h.LoginPage)
	r.POST(middleware.LoginPath, limit, h.Login)
	r.POST("/logout", h.Logout)

	r.GET(SignUpPath, h.SignUpPage)
	r.POST(SignUpPath, limit, h.SignUp)

	auth := r.Group("/auth")
	{
		auth.POST("/invite/accept", h.AcceptInvite)
		auth.POST("/password/recover", limit, h.RecoverPassword)
		auth.POST("/password/reset", h.ResetPassword)
	}
}

// LoginPage godoc
// @Summary Login page data
// @Description Returns the data the login page renders. Signed-in users are redirected to their landing page.
// @Tags auth
// @Produce json
// @Param next query string false "Path to return to after sign-in"
// @Param error query string false "Error banner"
// @Success 200 {object} dto.LoginPageResponse
// @Router /login [get]
func (h *AuthHandler) LoginPage(c *gin.Context) {
	next := c.Query("next")
	resp := dto.LoginPageResponse{
		Next:    next,
		Error:   c.Query("error"),
		Success: c.Query("success"),
	}
	if h.google.IsConfigured() {
		resp.GoogleLoginURL = "/auth/google/login"
		if next != "" {
			resp.GoogleLoginURL += "?" + url.Values{"next": {next}}.Encode()
		}
	}
	c.JSON(http.StatusOK, resp)
}

// loginFailed sends the browser back to the login page with the error, keeping next.
func (h *AuthHandler) loginFailed(c *gin.Context, next string, err error) {
	page := middleware.LoginPath
	if next != "" {
		page += "?" + url.Values{"next": {next}}.Encode()
	}
	actionFailed(c, page, err)
}

// Login godoc
// @Summary Sign in with email and password
// @Description Issues the session cookies and redirects to the requested page, or /dashboard.
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Success 303 "Redirect to the next path"
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "User is banned"
// @Failure 429 {object} ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.loginFailed(c, c.PostForm("next"), apperrors.NewValidationFailedError(missingLoginMessage))
		return
	}

	session, err := h.sessions.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.loginFailed(c, req.Next, err)
		return
	}
	h.manager.Cookies().Set(c, session)

	target := utils.SafeNextPath(req.Next)
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("User signed in",
		slog.String("user_id", session.IdentityID), slog.String("next", target))
	if wantsJSON(c) {
		c.JSON(http.StatusOK, dto.LoginResponse{Redirect: target})
		return
	}
	seeOther(c, target)
}

// Logout godoc
// @Summary Sign out
// @Description Revokes the refresh token and clears the session cookies.
// @Tags auth
// @Success 204
// @Success 303 "Redirect to /login"
// @Router /logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	res := h.manager.Resolve(c)
	if res.HasSession() {
		if err := h.sessions.SignOut(c.Request.Context(), res.IdentityID); err != nil {
			middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to revoke session on sign out",
				slog.String("user_id", res.IdentityID), slog.String("error", err.Error()))
		}
	}
	h.manager.Cookies().Clear(c)

	if wantsJSON(c) {
		c.Status(http.StatusNoContent)
		return
	}
	seeOther(c, middleware.LoginPath)
}

// SignUpPage godoc
// @Summary Sign-up page data
// @Description Returns the banners the sign-up page renders.
// @Tags auth
// @Produce json
// @Param error query string false "Error banner"
// @Param success query string false "Success banner"
// @Success 200 {object} dto.SignUpPageResponse
// @Router /signup [get]
func (h *AuthHandler) SignUpPage(c *gin.Context) {
	c.JSON(http.StatusOK, dto.SignUpPageResponse{
		Error:       c.Query("error"),
		Success:     c.Query("success"),
		DefaultRole: domain.DefaultSignUpRole,
	})
}

// SignUp godoc
// @Summary Create an account
// @Description Registers an email and password. New accounts hold the grower role until an admin changes it.
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param signup body dto.SignUpRequest true "Email and password"
// @Success 200 {object} dto.ActionResponse
// @Success 303 "Redirect to /signup with a banner"
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /signup [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req dto.SignUpRequest
	if err := c.ShouldBind(&req); err != nil {
		actionFailed(c, SignUpPath, errInvalidRequest)
		return
	}

	if err := h.credentials.SignUp(c.Request.Context(), req.Email, req.Password); err != nil {
		actionFailed(c, SignUpPath, err)
		return
	}
	actionDone(c, SignUpPath, dto.ActionResponse{Applied: true}, signUpDoneMessage)
}

// tokenPage is a frontend page that carries a one-time token.
func (h *AuthHandler) tokenPage(path, token string) string {
	return h.frontendURL + path + "?" + url.Values{"token": {token}}.Encode()
}

// AcceptInvite godoc
// @Summary Accept an invite
// @Description Sets the first password of an invited account and signs it in.
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param invite body dto.AcceptInviteRequest true "Invite token and password"
// @Success 200 {object} dto.LoginResponse
// @Success 303 "Redirect to /dashboard"
// @Failure 400 {object} ErrorResponse
// @Router /auth/invite/accept [post]
func (h *AuthHandler) AcceptInvite(c *gin.Context) {
	var req dto.AcceptInviteRequest
	if err := c.ShouldBind(&req); err != nil {
		actionFailed(c, h.tokenPage("/accept-invite", c.PostForm("token")),
			apperrors.NewValidationFailedError("Please fill in all fields."))
		return
	}

	session, err := h.credentials.AcceptInvite(c.Request.Context(), req.Token, req.Password, req.ConfirmPassword)
	if err != nil {
		actionFailed(c, h.tokenPage("/accept-invite", req.Token), err)
		return
	}
	h.manager.Cookies().Set(c, session)

	if wantsJSON(c) {
		c.JSON(http.StatusOK, dto.LoginResponse{Redirect: utils.DefaultPostLoginPath})
		return
	}
	seeOther(c, utils.DefaultPostLoginPath)
}

// RecoverPassword godoc
// @Summary Request a password reset mail
// @Description Always answers the same way so that account existence is not revealed.
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param recover body dto.RecoverPasswordRequest true "Account email"
// @Success 200 {object} dto.ActionResponse
// @Success 303 "Redirect to /login with a banner"
// @Failure 400 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /auth/password/recover [post]
func (h *AuthHandler) RecoverPassword(c *gin.Context) {
	var req dto.RecoverPasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		actionFailed(c, middleware.LoginPath, apperrors.NewValidationFailedError("Please enter a valid email address."))
		return
	}

	if err := h.credentials.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		actionFailed(c, middleware.LoginPath, err)
		return
	}
	actionDone(c, middleware.LoginPath, dto.ActionResponse{Applied: true}, recoverSentMessage)
}

// ResetPassword godoc
// @Summary Reset a password
// @Description Sets a new password using a reset token and signs out every session.
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param reset body dto.ResetPasswordRequest true "Reset token and password"
// @Success 200 {object} dto.ActionResponse
// @Success 303 "Redirect to /login with a banner"
// @Failure 400 {object} ErrorResponse
// @Router /auth/password/reset [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		actionFailed(c, h.tokenPage("/reset-password", c.PostForm("token")),
			apperrors.NewValidationFailedError("Please fill in all fields."))
		return
	}

	if err := h.credentials.ResetPassword(c.Request.Context(), req.Token, req.Password, req.ConfirmPassword); err != nil {
		actionFailed(c, h.tokenPage("/reset-password", req.Token), err)
		return
	}
	actionDone(c, middleware.LoginPath, dto.ActionResponse{Applied: true}, passwordResetMessage)
}
