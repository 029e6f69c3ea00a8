package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("API_KEY", "k")

	_, err := Load()

	require.ErrorContains(t, err, "DATABASE_URL")
}

func TestLoadRequiresAPIKeyWhenEnforced(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/crash_monitor")
	t.Setenv("API_KEY", "")
	t.Setenv("REQUIRE_API_KEY", "1")

	_, err := Load()

	require.ErrorContains(t, err, "API_KEY")
}

func TestLoadAllowsMissingKeyWhenDisabled(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/crash_monitor")
	t.Setenv("API_KEY", "")
	t.Setenv("REQUIRE_API_KEY", "0")

	cfg, err := Load()

	require.NoError(t, err)
	require.False(t, cfg.Auth.Require)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/crash_monitor")
	t.Setenv("API_KEY", "k")
	t.Setenv("REQUIRE_API_KEY", "")
	t.Setenv("SERVER_HOST", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")

	cfg, err := Load()

	require.NoError(t, err)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, 8080, cfg.Server.Port)
	require.True(t, cfg.Auth.Require)
	require.True(t, cfg.CORS.AllowAllOrigins)
	require.Equal(t, "info", cfg.Logging.Level)
	require.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadParsesOriginList(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/crash_monitor")
	t.Setenv("API_KEY", "k")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:3000, https://dashboard.example.com ,")

	cfg, err := Load()

	require.NoError(t, err)
	require.False(t, cfg.CORS.AllowAllOrigins)
	require.Equal(t, []string{"http://localhost:3000", "https://dashboard.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestGetEnvBool(t *testing.T) {
	for _, value := range []string{"0", "false", "False", "no", "off"} {
		t.Setenv("REQUIRE_API_KEY", value)
		require.False(t, getEnvBool("REQUIRE_API_KEY", true), "value=%q", value)
	}

	t.Setenv("REQUIRE_API_KEY", "1")
	require.True(t, getEnvBool("REQUIRE_API_KEY", false))
}
