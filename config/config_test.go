package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
provider:
  mode: http
  base_url: http://provider.local
engine:
  mode: mock
scheduling:
  poll_interval_seconds: 2
  max_attempts: 10
metrics:
  prometheus_enabled: true
bridge:
  enabled: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://provider.local", cfg.Provider.BaseURL)
	assert.Equal(t, "mock", cfg.Engine.Mode)
	assert.Equal(t, 2, cfg.Scheduling.PollIntervalSeconds)
	assert.Equal(t, 10, cfg.Scheduling.MaxAttempts)
	assert.True(t, cfg.Metrics.PrometheusEnabled)
	assert.False(t, cfg.Bridge.Enabled)
}

func TestLoadJSONWithDefaults(t *testing.T) {
	path := writeConfig(t, "config.json", `{
		"provider": {"mode": "mock"},
		"engine": {"mode": "mock"}
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Scheduling.PollIntervalSeconds)
	assert.Equal(t, 60, cfg.Scheduling.MaxAttempts)
	assert.Equal(t, "2112", cfg.Metrics.PrometheusPort)
	assert.Equal(t, "dispatchboard", cfg.Bridge.TopicPrefix)
	assert.Equal(t, 10, cfg.Provider.TimeoutSeconds)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
provider:
  mode: mock
engine:
  mode: mock
`)
	t.Setenv("DB_PROVIDER__MODE", "mock")
	t.Setenv("DB_SCHEDULING__MAX_ATTEMPTS", "3")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Scheduling.MaxAttempts)
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	path := writeConfig(t, "config.toml", "")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsInvalidBackend(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
provider:
  mode: http
engine:
  mode: mock
`)
	_, err := Load(path)
	require.Error(t, err, "http provider without base_url must be rejected")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
