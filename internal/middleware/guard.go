package middleware

import (
	"context"
	"log/slog"

	"github.com/SscSPs/packhouse_portal/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// OutcomeKind tags a guard Outcome.
type OutcomeKind int

const (
	OutcomeOK OutcomeKind = iota
	OutcomeRedirect
)

// Outcome is the result of a guard check. Callers must act on Kind:
// OutcomeOK carries the admitted Principal, OutcomeRedirect the Location to send the caller to.
type Outcome struct {
	Kind      OutcomeKind
	Principal *domain.Principal
	Location  string
}

// IsOK reports whether the caller was admitted.
func (o Outcome) IsOK() bool {
	return o.Kind == OutcomeOK && o.Principal != nil
}

func admitted(p *domain.Principal) Outcome {
	return Outcome{Kind: OutcomeOK, Principal: p}
}

func redirectTo(location string) Outcome {
	return Outcome{Kind: OutcomeRedirect, Location: location}
}

// RequireAuth admits any resolved principal and sends everyone else to login,
// remembering the requested path.
func (m *SessionManager) RequireAuth(c *gin.Context) Outcome {
	res := m.Resolve(c)
	if res.Principal == nil {
		return redirectTo(m.LoginRedirect(c.Request.URL.Path))
	}
	return admitted(res.Principal)
}

// RequireRole admits principals holding one of roles. Others are sent to their
// own landing path, never shown a denial.
func (m *SessionManager) RequireRole(c *gin.Context, roles ...domain.Role) Outcome {
	outcome := m.RequireAuth(c)
	if !outcome.IsOK() {
		return outcome
	}
	if !outcome.Principal.HasRole(roles...) {
		return redirectTo(outcome.Principal.Role.LandingPath())
	}
	return outcome
}

// AuthRequired is RequireAuth as middleware.
func (m *SessionManager) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		m.admit(c, m.RequireAuth(c))
	}
}

// RoleRequired is RequireRole as middleware.
func (m *SessionManager) RoleRequired(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		m.admit(c, m.RequireRole(c, roles...))
	}
}

func (m *SessionManager) admit(c *gin.Context, outcome Outcome) {
	if !outcome.IsOK() {
		m.redirectWithCookies(c, outcome.Location)
		return
	}
	m.applyCookies(c)

	p := outcome.Principal
	c.Set(string(principalKey), p)
	c.Set(string(userIDKey), p.UserID)
	c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), userIDKey, p.UserID))
	withLogger(c, GetLoggerFromCtx(c.Request.Context()).With(
		slog.String("user_id", p.UserID),
		slog.String("role", string(p.Role)),
	))

	c.Next()
}
