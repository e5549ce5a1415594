package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 90, cfg.Server.RequestTimeout)
	assert.True(t, cfg.Fetch.DirectEnabled)
	assert.Equal(t, 300, cfg.Fetch.MinMarkupBytes)
	assert.Equal(t, 800*time.Millisecond, cfg.Fetch.AttemptDelay())
	assert.Equal(t, 8*time.Second, cfg.Fetch.DirectTimeout())
	assert.Equal(t, 4096, cfg.Capture.MinImageBytes)
	assert.Equal(t, 12*time.Second, cfg.Capture.EndpointTimeout())
	assert.False(t, cfg.Render.Enabled)
	assert.Equal(t, 2*time.Second, cfg.Render.SettleDelay())
	assert.NotEmpty(t, cfg.Fetch.UserAgent)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
fetch:
  min_markup_bytes: 100
render:
  enabled: true
  max_parallel: 2
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 100, cfg.Fetch.MinMarkupBytes)
	assert.True(t, cfg.Render.Enabled)
	assert.Equal(t, 2, cfg.Render.MaxParallel)
	// Unset keys keep their defaults.
	assert.Equal(t, 90, cfg.Server.RequestTimeout)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{
		Server: ServerConfig{Port: 8080, RequestTimeout: 90},
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "zero port", mutate: func(c *Config) { c.Server.Port = 0 }},
		{name: "zero request timeout", mutate: func(c *Config) { c.Server.RequestTimeout = 0 }},
		{name: "negative markup floor", mutate: func(c *Config) { c.Fetch.MinMarkupBytes = -1 }},
		{name: "render enabled without parallelism", mutate: func(c *Config) {
			c.Render.Enabled = true
			c.Render.MaxParallel = 0
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
