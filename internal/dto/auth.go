package dto

import "github.com/SscSPs/packhouse_portal/internal/core/domain"

// LoginRequest carries email/password credentials and the optional return-to path.
type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
	Next     string `json:"next" form:"next"`
}

// LoginPageResponse is the data the login page renders.
type LoginPageResponse struct {
	Next           string `json:"next"`
	Error          string `json:"error,omitempty"`
	Success        string `json:"success,omitempty"`
	GoogleLoginURL string `json:"googleLoginUrl,omitempty"`
}

// AcceptInviteRequest sets the first password for an invited account.
type AcceptInviteRequest struct {
	Token           string `json:"token" form:"token" binding:"required"`
	Password        string `json:"password" form:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" form:"confirm_password" binding:"required"`
}

// RecoverPasswordRequest asks for a password reset mail.
type RecoverPasswordRequest struct {
	Email string `json:"email" form:"email" binding:"required,email"`
}

// ResetPasswordRequest completes a password reset.
type ResetPasswordRequest struct {
	Token           string `json:"token" form:"token" binding:"required"`
	Password        string `json:"password" form:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" form:"confirm_password" binding:"required"`
}

// LoginResponse tells JSON clients where to go after signing in.
type LoginResponse struct {
	Redirect string `json:"redirect"`
}

// SignUpRequest registers a new account. Missing fields are reported by the service.
type SignUpRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// SignUpPageResponse is the data the sign-up page renders.
type SignUpPageResponse struct {
	Error       string      `json:"error,omitempty"`
	Success     string      `json:"success,omitempty"`
	DefaultRole domain.Role `json:"defaultRole"`
}
