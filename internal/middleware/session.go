package middleware

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/SscSPs/packhouse_portal/internal/core/domain"
	portssvc "github.com/SscSPs/packhouse_portal/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

// LoginPath is the sign-in route.
const LoginPath = "/login"

// requestIdentity memoizes the session resolution for one request.
// It lives in the gin context, so it is discarded with the request.
type requestIdentity struct {
	once           sync.Once
	resolution     *domain.Resolution
	cookiesApplied bool
}

// SessionManager resolves the caller once per request and enforces the
// top-level session redirects and the per-route guards.
type SessionManager struct {
	resolver  portssvc.IdentityResolverSvc
	cookies   SessionCookies
	loginPath string
}

// NewSessionManager creates a SessionManager.
func NewSessionManager(resolver portssvc.IdentityResolverSvc, cookies SessionCookies) *SessionManager {
	return &SessionManager{
		resolver:  resolver,
		cookies:   cookies,
		loginPath: LoginPath,
	}
}

// Cookies returns the session cookie settings.
func (m *SessionManager) Cookies() SessionCookies {
	return m.cookies
}

func (m *SessionManager) identity(c *gin.Context) *requestIdentity {
	if v, ok := c.Get(string(requestIdentityKey)); ok {
		if ri, ok := v.(*requestIdentity); ok {
			return ri
		}
	}
	ri := &requestIdentity{}
	c.Set(string(requestIdentityKey), ri)
	return ri
}

// Resolve returns the caller's resolution, asking the resolver at most once per request.
// Resolver failures are logged and resolve as no session.
func (m *SessionManager) Resolve(c *gin.Context) *domain.Resolution {
	ri := m.identity(c)
	ri.once.Do(func() {
		res, err := m.resolver.Resolve(c.Request.Context(), m.cookies.Tokens(c))
		if err != nil {
			GetLoggerFromCtx(c.Request.Context()).Error("Failed to resolve session", slog.String("error", err.Error()))
			res = nil
		}
		if res == nil {
			res = &domain.Resolution{}
		}
		ri.resolution = res
	})
	return ri.resolution
}

// applyCookies writes refreshed or revoked session cookies onto the response.
// It runs at most once per request.
func (m *SessionManager) applyCookies(c *gin.Context) {
	ri := m.identity(c)
	if ri.cookiesApplied || ri.resolution == nil {
		return
	}
	ri.cookiesApplied = true
	switch {
	case ri.resolution.Refreshed != nil:
		m.cookies.Set(c, ri.resolution.Refreshed)
	case ri.resolution.Revoked:
		m.cookies.Clear(c)
	}
}

// redirectWithCookies issues a 303 that still carries any refreshed session cookies.
func (m *SessionManager) redirectWithCookies(c *gin.Context, location string) {
	m.applyCookies(c)
	c.Redirect(http.StatusSeeOther, location)
	c.Abort()
}

// LoginRedirect returns the login URL that returns to path after sign-in.
func (m *SessionManager) LoginRedirect(path string) string {
	if path == "" || path == m.loginPath {
		return m.loginPath
	}
	return m.loginPath + "?" + url.Values{"next": {path}}.Encode()
}

// RouteProxy is the outermost session check:
//   - no session outside the login route redirects to login with next=path
//   - a session on the login route redirects to the role's landing path
//   - everything else passes through
//
// Paths starting with any of skipPrefixes are not checked.
func (m *SessionManager) RouteProxy(skipPrefixes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, prefix := range skipPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		res := m.Resolve(c)
		onLogin := path == m.loginPath

		switch {
		case !res.HasSession() && !onLogin:
			m.redirectWithCookies(c, m.LoginRedirect(path))
			return
		case res.HasSession() && onLogin && res.Principal != nil:
			if landing := res.Principal.Role.LandingPath(); landing != "" {
				m.redirectWithCookies(c, landing)
				return
			}
		}

		m.applyCookies(c)
		c.Next()
	}
}
