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

func chdirWithConfig(t *testing.T, yaml string) {
	t.Helper()
	viper.Reset()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(wd)
		viper.Reset()
	})
}

func TestLoadConfig(t *testing.T) {
	chdirWithConfig(t, `
server:
  port: 9090
vapid:
  public_key: test-public
  private_key: test-private
  subscriber: suporte@dgnotas.com.br
push:
  timeout: 3s
cron:
  secret: cron-secret
`)

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "test-public", cfg.VAPID.PublicKey)
	assert.Equal(t, "suporte@dgnotas.com.br", cfg.VAPID.Subscriber)
	assert.Equal(t, 3*time.Second, cfg.Push.Timeout)
	assert.Equal(t, "cron-secret", cfg.Cron.Secret)
}

func TestLoadConfig_Defaults(t *testing.T) {
	chdirWithConfig(t, `
vapid:
  public_key: test-public
  private_key: test-private
`)

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Push.Timeout)
	assert.Equal(t, 86400, cfg.Push.TTLSeconds)
	assert.Equal(t, time.Minute, cfg.Fallback.DrainMaxAge)
	assert.Equal(t, time.Hour, cfg.Fallback.Retention)
	assert.False(t, cfg.Throttle.Enabled)
}

func TestLoadConfig_MissingVAPIDKeys(t *testing.T) {
	chdirWithConfig(t, `
server:
  port: 8080
`)

	_, err := LoadConfig()

	assert.ErrorContains(t, err, "vapid key pair is required")
}
