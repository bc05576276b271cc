package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "shopsight-insights/1.0 (+https://shopsight.dev)", cfg.Insights.UserAgent)
	require.Equal(t, 20, cfg.Insights.TimeoutSeconds)
	require.Equal(t, 16, cfg.Insights.Concurrency)
	require.Equal(t, 2000, cfg.Insights.MaxProducts)
	require.Equal(t, 60, cfg.Insights.MaxFAQs)
	require.Equal(t, 5, cfg.Insights.MaxFAQPages)
	require.Equal(t, 12, cfg.Insights.HeroCap)
	require.Equal(t, 400, cfg.Insights.MinPolicyBytes)
	require.Equal(t, "noop", cfg.Storage.Provider)
	require.Equal(t, "noop", cfg.DB.Provider)
	require.Equal(t, "noop", cfg.Queue.Provider)
	require.True(t, cfg.Logging.Development)
	require.Equal(t, 20*time.Second, cfg.RequestTimeout())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
server:
  port: 9999
insights:
  concurrency: 4
  max_products: 100
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 9999, cfg.Server.Port)
	require.Equal(t, 4, cfg.Insights.Concurrency)
	require.Equal(t, 100, cfg.Insights.MaxProducts)
	// Untouched keys keep their defaults.
	require.Equal(t, 12, cfg.Insights.HeroCap)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		cfg, err := Load("")
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"empty user agent", func(c *Config) { c.Insights.UserAgent = "" }},
		{"zero timeout", func(c *Config) { c.Insights.TimeoutSeconds = 0 }},
		{"zero concurrency", func(c *Config) { c.Insights.Concurrency = 0 }},
		{"zero max products", func(c *Config) { c.Insights.MaxProducts = 0 }},
		{"zero hero cap", func(c *Config) { c.Insights.HeroCap = 0 }},
		{"gcs without bucket", func(c *Config) { c.Storage.Provider = "gcs" }},
		{"postgres without dsn", func(c *Config) { c.DB.Provider = "postgres" }},
		{"pubsub without topic", func(c *Config) { c.Queue.Provider = "pubsub"; c.Queue.ProjectID = "p" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}

	t.Run("valid defaults", func(t *testing.T) {
		require.NoError(t, base().Validate())
	})
}
