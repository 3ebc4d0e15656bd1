package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvPrefix+"_CONFIG", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8000", cfg.Server.Address())
	assert.Equal(t, BackendFile, cfg.Registry.Backend)
	assert.True(t, cfg.Registry.Seed)
	assert.Equal(t, 5*time.Second, cfg.Discovery.Timeout)
	assert.Equal(t, 3*time.Second, cfg.Discovery.MDNS.Window)
	assert.Equal(t, "_shelly._tcp", cfg.Discovery.MDNS.Service)
	assert.Empty(t, cfg.Discovery.ZWave.Server)
	assert.Equal(t, 50, cfg.Telemetry.ScanCap)
	assert.Equal(t, 100, cfg.Telemetry.OnboardingCap)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "myhub.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
registry:
  backend: sqlite
  path: /tmp/hub.db
discovery:
  timeout: 8s
  zwave:
    server: ws://zwave.local:3000
`), 0o644))

	t.Setenv("MYHUB_SERVER_PORT", "9191")
	t.Setenv("MYHUB_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, BackendSQLite, cfg.Registry.Backend)
	assert.Equal(t, "/tmp/hub.db", cfg.Registry.Path)
	assert.Equal(t, 8*time.Second, cfg.Discovery.Timeout)
	assert.Equal(t, "ws://zwave.local:3000", cfg.Discovery.ZWave.Server)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Setenv(EnvPrefix+"_CONFIG", "")

	cases := map[string]map[string]string{
		"backend": {"MYHUB_REGISTRY_BACKEND": "postgres"},
		"port":    {"MYHUB_SERVER_PORT": "0"},
		"window":  {"MYHUB_DISCOVERY_MDNS_WINDOW": "10s"},
		"caps":    {"MYHUB_TELEMETRY_SCAN_CAP": "0"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}
