package middleware

import (
	"github.com/SscSPs/packhouse_portal/internal/core/domain"
	"github.com/gin-gonic/gin"
)

const (
	// userIDKey holds the authenticated user's ID once a guard has admitted the request.
	userIDKey = contextKey("userID")
	// principalKey holds the admitted *domain.Principal.
	principalKey = contextKey("principal")
	// requestIdentityKey holds the request-scoped identity cache.
	requestIdentityKey = contextKey("requestIdentity")
)

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get(string(userIDKey))
	if !exists {
		if userID, ok := c.Request.Context().Value(userIDKey).(string); ok {
			return userID, true
		}
		return "", false
	}

	userID, ok := userIDVal.(string)
	return userID, ok
}

// GetPrincipalFromContext returns the principal admitted by RequireAuth/RequireRole.
func GetPrincipalFromContext(c *gin.Context) (*domain.Principal, bool) {
	v, exists := c.Get(string(principalKey))
	if !exists {
		return nil, false
	}
	p, ok := v.(*domain.Principal)
	return p, ok && p != nil
}
