package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "env.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
auth:
  heartbeat_secret: XYZ
  jwt_secret: 0123456789abcdef0123
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "lightwatch", cfg.ServiceName)
	require.Equal(t, 5*time.Minute, cfg.Monitor.Timeout)
	require.Equal(t, 30*time.Second, cfg.Monitor.CheckInterval)
	require.Equal(t, "Europe/Kyiv", cfg.Monitor.Timezone)
	require.Equal(t, "sqlite", cfg.Store.Driver)
	require.Equal(t, 10*time.Second, cfg.Telegram.Timeout)
	require.Equal(t, "XYZ", cfg.Auth.HeartbeatSecret)
	require.False(t, cfg.RabbitMQ.Enabled)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	path := writeConfig(t, `
auth:
  heartbeat_secret: XYZ
  jwt_secret: 0123456789abcdef0123
`)
	t.Setenv("MONITOR_TIMEOUT", "10m")
	t.Setenv("AUTH_HEARTBEAT_SECRET", "from-env")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 10*time.Minute, cfg.Monitor.Timeout)
	require.Equal(t, "from-env", cfg.Auth.HeartbeatSecret)
}

func TestLoadConfigMissingFileUsesEnv(t *testing.T) {
	t.Setenv("AUTH_HEARTBEAT_SECRET", "XYZ")
	t.Setenv("AUTH_JWT_SECRET", "0123456789abcdef0123")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, "XYZ", cfg.Auth.HeartbeatSecret)
}

func TestLoadConfigValidation(t *testing.T) {
	t.Run("check interval must be below timeout", func(t *testing.T) {
		path := writeConfig(t, `
monitor:
  timeout: 30s
  check_interval: 30s
auth:
  heartbeat_secret: XYZ
  jwt_secret: 0123456789abcdef0123
`)
		_, err := LoadConfig(path)
		require.Error(t, err)
		require.Contains(t, err.Error(), "CheckInterval")
	})

	t.Run("secret is required", func(t *testing.T) {
		path := writeConfig(t, `
auth:
  jwt_secret: 0123456789abcdef0123
`)
		_, err := LoadConfig(path)
		require.Error(t, err)
		require.Contains(t, err.Error(), "HeartbeatSecret")
	})

	t.Run("unknown store driver", func(t *testing.T) {
		path := writeConfig(t, `
store:
  driver: etcd
auth:
  heartbeat_secret: XYZ
  jwt_secret: 0123456789abcdef0123
`)
		_, err := LoadConfig(path)
		require.Error(t, err)
		require.Contains(t, err.Error(), "Driver")
	})
}

func TestLoadBeaconConfig(t *testing.T) {
	path := writeConfig(t, `
env: production
beacon:
  url: http://vps.example:5000
  token: XYZ
`)
	t.Setenv("BEACON_INTERVAL", "2m")

	cfg, err := LoadBeaconConfig(path)
	require.NoError(t, err)
	require.Equal(t, "production", cfg.Env)
	require.Equal(t, "http://vps.example:5000", cfg.URL)
	require.Equal(t, "XYZ", cfg.Token)
	require.Equal(t, 2*time.Minute, cfg.Interval)
	require.Equal(t, 10*time.Second, cfg.Timeout)

	_, err = LoadBeaconConfig(writeConfig(t, "beacon:\n  url: http://vps.example\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "Token")
}
