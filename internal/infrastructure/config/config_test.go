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

func writeConfig(t *testing.T, content string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "configs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "config.yaml"), []byte(content), 0o644))
	t.Chdir(dir)
	viper.Reset()
}

func TestLoad(t *testing.T) {
	t.Run("file values override defaults", func(t *testing.T) {
		writeConfig(t, `
server:
  port: 9090
helpdesk:
  backend_timeout: 5s
  cache_ttl: 4m
  refresh_interval: 1m
  soap:
    url: http://legacy/soap
  rest_endpoints:
    desk-it:
      url: http://it/api
`)

		cfg, err := Load("default")

		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "0.0.0.0", cfg.Server.Host)
		assert.Equal(t, 5*time.Second, cfg.Helpdesk.BackendTimeout)
		assert.Equal(t, 4*time.Minute, cfg.Helpdesk.CacheTTL)
		assert.Equal(t, "http://legacy/soap", cfg.Helpdesk.SOAP.URL)
		assert.Equal(t, "urn:servicedesk", cfg.Helpdesk.SOAP.Namespace)
		require.Contains(t, cfg.Helpdesk.RESTEndpoints, "desk-it")
		assert.Equal(t, "http://it/api", cfg.Helpdesk.RESTEndpoints["desk-it"].URL)

		assert.Same(t, cfg, Get())
	})

	t.Run("defaults alone are a valid config", func(t *testing.T) {
		writeConfig(t, "server:\n  port: 8081\n")

		cfg, err := Load("default")

		require.NoError(t, err)
		assert.Equal(t, 15*time.Second, cfg.Helpdesk.BackendTimeout)
		assert.Equal(t, 10*time.Minute, cfg.Helpdesk.CacheTTL)
		assert.Equal(t, 3*time.Minute, cfg.Helpdesk.RefreshInterval)
		assert.Equal(t, 5, cfg.Helpdesk.IdleRefreshLimit)
		assert.Empty(t, cfg.Helpdesk.SOAP.URL)
	})

	t.Run("env selects the server mode", func(t *testing.T) {
		writeConfig(t, "server:\n  mode: debug\n")

		cfg, err := Load("release")

		require.NoError(t, err)
		assert.Equal(t, "release", cfg.Server.Mode)
	})

	t.Run("invalid refresh interval is rejected", func(t *testing.T) {
		writeConfig(t, `
helpdesk:
  cache_ttl: 1m
  refresh_interval: 2m
`)

		_, err := Load("default")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "refresh_interval")
	})
}
