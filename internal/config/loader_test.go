package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestLoadDefaults(t *testing.T) {
	resetViper(t)
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTokenTTL)
	assert.Equal(t, "keys/private.pem", cfg.JWT.RSAPrivateKeyFile)
	assert.Equal(t, "issue-tracker", cfg.JWT.Issuer)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Kafka.Enabled)
	assert.EqualValues(t, 65536, cfg.Security.PasswordHash.Memory)
}

func TestLoadFromFileAndEnvOverride(t *testing.T) {
	resetViper(t)
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
server:
  port: 9090
jwt:
  access_token_ttl: 5m
  issuer: tracker-staging
`), 0o600))

	t.Setenv("CONFIG_PATH", configPath)
	t.Setenv("AUTH_SERVER_PORT", "9191")

	cfg, err := Load()
	require.NoError(t, err)

	// Env beats file, file beats defaults.
	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, 5*time.Minute, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, "tracker-staging", cfg.JWT.Issuer)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTokenTTL)
}
