package config_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/survey-admin/internal/config"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	c, err := config.New()
	require.NoError(t, err)

	require.Equal(t, ":8080", c.GetPort())
	require.Equal(t, "DEV", c.GetEnv())
	require.False(t, c.IsProduction())
	require.Equal(t, 7*24*time.Hour, c.GetSessionTTL())
	require.False(t, c.GetLegacyAuthCookie())
	require.Equal(t, "admin@admin.com", c.GetAdminEmail())
	require.Equal(t, 5*time.Minute, c.GetFormsCacheTTL())
	require.Equal(t, "sqlite", c.GetStoreDriver())
	require.Empty(t, c.GetAllowedOrigins())
}

func TestNew_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENV", "prod")
	t.Setenv("LEGACY_AUTH_COOKIE", "true")
	t.Setenv("SESSION_DENYLIST", "memory")
	t.Setenv("FORMS_CACHE_TTL", "30s")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("STORE_DRIVER", "memory")

	c, err := config.New()
	require.NoError(t, err)

	require.Equal(t, ":9000", c.GetPort())
	require.True(t, c.IsProduction())
	require.True(t, c.GetLegacyAuthCookie())
	require.Equal(t, "memory", c.GetSessionDenylist())
	require.Equal(t, 30*time.Second, c.GetFormsCacheTTL())
	require.Equal(t, "memory", c.GetStoreDriver())

	origins := c.GetAllowedOrigins()
	require.True(t, origins.IsAllowedOrigin("https://a.example.com"))
	require.True(t, origins.IsAllowedOrigin("https://b.example.com"))
	require.False(t, origins.IsAllowedOrigin("https://c.example.com"))
}

func TestNew_InvalidValue(t *testing.T) {
	t.Setenv("FORMS_CACHE_TTL", "soon")

	_, err := config.New()
	require.Error(t, err)
}
