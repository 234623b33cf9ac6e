package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_EXPIRY_DURATION", "")
	t.Setenv("REFRESH_TOKEN_COOKIE_NAME", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, time.Hour, cfg.JWTExpiryDuration)
	assert.Equal(t, "rtid", cfg.RefreshTokenCookieName)
	assert.Equal(t, "/", cfg.SessionCookiePath)
	assert.Equal(t, "5-M", cfg.LoginRateLimit)
}

func TestLoadConfig_InvalidDurationFallsBack(t *testing.T) {
	t.Setenv("RESET_TOKEN_EXPIRY_DURATION", "soon")
	t.Setenv("INVITE_TOKEN_EXPIRY_DURATION", "24h")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, time.Hour, cfg.ResetTokenExpiryDuration)
	assert.Equal(t, 24*time.Hour, cfg.InviteTokenExpiryDuration)
}

func TestLoadConfig_S3PublicURLFallsBackToEndpoint(t *testing.T) {
	t.Setenv("S3_ENDPOINT", "http://minio:9000/")
	t.Setenv("S3_PUBLIC_BASE_URL", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://minio:9000", cfg.S3PublicBaseURL)
}
