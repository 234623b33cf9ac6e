package middleware

import (
	"net/http"
	"time"

	"github.com/SscSPs/packhouse_portal/internal/core/domain"
	"github.com/SscSPs/packhouse_portal/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// SessionCookies names and scopes the two session cookies.
type SessionCookies struct {
	AccessName  string
	RefreshName string
	Path        string
	Secure      bool
}

// NewSessionCookies builds the cookie settings from configuration.
func NewSessionCookies(cfg *config.Config) SessionCookies {
	return SessionCookies{
		AccessName:  cfg.AccessTokenCookieName,
		RefreshName: cfg.RefreshTokenCookieName,
		Path:        cfg.SessionCookiePath,
		Secure:      cfg.IsProduction,
	}
}

// Tokens reads the presented session cookies. Missing cookies read as "".
func (sc SessionCookies) Tokens(c *gin.Context) domain.SessionTokens {
	access, _ := c.Cookie(sc.AccessName)
	refresh, _ := c.Cookie(sc.RefreshName)
	return domain.SessionTokens{AccessToken: access, RefreshToken: refresh}
}

// Set writes both cookies of a freshly issued session.
func (sc SessionCookies) Set(c *gin.Context, session *domain.Session) {
	if session == nil {
		return
	}
	sc.write(c, sc.AccessName, session.AccessToken, session.AccessTokenExpiresAt)
	sc.write(c, sc.RefreshName, session.RefreshToken, session.RefreshTokenExpiresAt)
}

// Clear expires both cookies.
func (sc SessionCookies) Clear(c *gin.Context) {
	sc.write(c, sc.AccessName, "", time.Time{})
	sc.write(c, sc.RefreshName, "", time.Time{})
}

func (sc SessionCookies) write(c *gin.Context, name, value string, expires time.Time) {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     sc.Path,
		HttpOnly: true,
		Secure:   sc.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if value == "" {
		cookie.MaxAge = -1
	} else {
		cookie.Expires = expires
		cookie.MaxAge = int(time.Until(expires).Seconds())
	}
	http.SetCookie(c.Writer, cookie)
}
