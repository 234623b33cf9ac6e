package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/packhouse_portal/internal/utils"
	"github.com/gin-gonic/gin"
)

// untrackedPrefixes are infrastructure routes that never produce analytics events.
var untrackedPrefixes = []string{"/health", "/metrics", "/swagger"}

// PosthogMiddleware records one event per successful request made by an admitted user.
// Page loads become "page_viewed"; form posts are named after their route,
// e.g. POST /growers/work-items/:itemID -> "growers_work-items".
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !posthogClient.IsInitialized() || isUntracked(c.Request.URL.Path) {
			c.Next()
			return
		}

		c.Next()

		// Redirects are guard bounces or form results; only the latter count.
		status := c.Writer.Status()
		if status >= http.StatusBadRequest || (c.Request.Method == http.MethodGet && status != http.StatusOK) {
			return
		}

		p, ok := GetPrincipalFromContext(c)
		if !ok {
			return
		}
		route := c.FullPath()
		if route == "" {
			return
		}

		event := "page_viewed"
		if c.Request.Method != http.MethodGet {
			event = eventName(route)
		}

		props := map[string]any{
			"route":       route,
			"method":      c.Request.Method,
			"status_code": status,
			"role":        string(p.Role),
		}
		posthogClient.Enqueue(p.UserID, event, props)
	}
}

func isUntracked(path string) bool {
	for _, prefix := range untrackedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// eventName joins the static segments of a route pattern with underscores.
func eventName(route string) string {
	parts := make([]string, 0, 4)
	for _, seg := range strings.Split(route, "/") {
		if seg == "" || strings.HasPrefix(seg, ":") || strings.HasPrefix(seg, "*") {
			continue
		}
		parts = append(parts, seg)
	}
	return strings.Join(parts, "_")
}
