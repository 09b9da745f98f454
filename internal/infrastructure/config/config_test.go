package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// no config file: defaults only
	chdir(t, t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.GetAddr())
	assert.Equal(t, "UTC", cfg.Server.Timezone)
	assert.Equal(t, "helpdesk_session", cfg.Auth.Cookie.Name)
	assert.Equal(t, 8*60, cfg.Auth.JWT.SessionExpMinutes)
	assert.Equal(t, 300, cfg.SLA.SweepIntervalSeconds)
	assert.False(t, cfg.Redis.Enabled)
	assert.Same(t, cfg, Get())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HELPDESK_DATABASE_DRIVER", "mysql")
	t.Setenv("HELPDESK_SERVER_PORT", "9090")
	t.Setenv("HELPDESK_REDIS_ENABLED", "true")

	cfg, err := Load("test")
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "test", cfg.Server.Mode)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HELPDESK_DATABASE_DRIVER", "oracle")

	_, err := Load("")
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestLoad_ReleaseRequiresJWTSecret(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := Load("release")
	assert.ErrorContains(t, err, "auth.jwt.secret")

	t.Setenv("HELPDESK_AUTH_JWT_SECRET", "a-real-secret")
	cfg, err := Load("release")
	require.NoError(t, err)
	assert.Equal(t, "a-real-secret", cfg.Auth.JWT.Secret)
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
