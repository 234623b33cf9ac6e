package middleware

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

// TooManyAttemptsMessage is shown when a client exceeds the sign-in rate.
const TooManyAttemptsMessage = "Too many attempts. Please wait a minute and try again."

// RateLimit throttles a route per client IP. Browsers over the limit are sent back
// to the login page with a banner; JSON callers get a 429.
func RateLimit(limiterInstance *limiter.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		logger := GetLoggerFromCtx(c.Request.Context())

		lc, err := limiterInstance.Get(c.Request.Context(), ip)
		if err != nil {
			// A broken limiter store must not lock everyone out of signing in.
			logger.Error("Failed to get rate limit context", slog.String("ip", ip), slog.String("error", err.Error()))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(lc.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(lc.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(lc.Reset, 10))

		if !lc.Reached {
			c.Next()
			return
		}

		logger.Warn("Rate limit exceeded", slog.String("ip", ip), slog.String("path", c.FullPath()), slog.Int64("limit", lc.Limit))
		if strings.Contains(c.GetHeader("Accept"), "application/json") {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": TooManyAttemptsMessage})
			return
		}
		c.Redirect(http.StatusSeeOther, LoginPath+"?"+url.Values{"error": {TooManyAttemptsMessage}}.Encode())
		c.Abort()
	}
}
