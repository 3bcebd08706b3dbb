package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "https://twitter.com", cfg.Twitter.BootstrapURL)
	assert.Equal(t, "https://api.twitter.com", cfg.Twitter.APIBase)
	assert.Equal(t, "https://twitter.com/i/api/graphql", cfg.Twitter.GraphQLBase)
	assert.Equal(t, 10, cfg.Twitter.SchemaRetryLimit)
	assert.Equal(t, "query_schemas", cfg.Twitter.SchemaDir)
	assert.Equal(t, 60, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, "other_media", cfg.Media.Directory)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
twitter:
  bootstrap_url: https://example.com
  http_timeout: 10s
rate_limit:
  requests_per_minute: 30
media:
  directory: my_media
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, "https://example.com", cfg.Twitter.BootstrapURL)
	assert.Equal(t, 10*time.Second, cfg.Twitter.HTTPTimeout)
	assert.Equal(t, 30, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, "my_media", cfg.Media.Directory)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// untouched fields keep their defaults
	assert.Equal(t, "https://api.twitter.com", cfg.Twitter.APIBase)
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TWARC_BOOTSTRAP_URL", "https://x.com")
	t.Setenv("TWARC_REQUESTS_PER_MINUTE", "15")
	t.Setenv("TWARC_LOG_LEVEL", "warn")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "https://x.com", cfg.Twitter.BootstrapURL)
	assert.Equal(t, 15, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadFromEnvIgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("TWARC_REQUESTS_PER_MINUTE", "not-a-number")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())
	assert.Equal(t, 60, cfg.RateLimit.RequestsPerMinute)
}

func TestApplyFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ApplyFlags(map[string]interface{}{
		"bootstrap-url":       "https://mobile.twitter.com",
		"requests-per-minute": 5,
		"media-dir":           "media",
		"log-level":           "error",
	})

	assert.Equal(t, "https://mobile.twitter.com", cfg.Twitter.BootstrapURL)
	assert.Equal(t, 5, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, "media", cfg.Media.Directory)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty bootstrap url", func(c *Config) { c.Twitter.BootstrapURL = "" }},
		{"empty api base", func(c *Config) { c.Twitter.APIBase = "" }},
		{"empty graphql base", func(c *Config) { c.Twitter.GraphQLBase = "" }},
		{"zero retry limit", func(c *Config) { c.Twitter.SchemaRetryLimit = 0 }},
		{"negative rate limit", func(c *Config) { c.RateLimit.RequestsPerMinute = -1 }},
		{"empty media dir", func(c *Config) { c.Media.Directory = "" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rate_limit:\n  requests_per_minute: 30\n"), 0644))

	t.Setenv("TWARC_REQUESTS_PER_MINUTE", "20")

	// env beats file
	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.RateLimit.RequestsPerMinute)

	// flags beat env
	cfg, err = Load(path, map[string]interface{}{"requests-per-minute": 10})
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.RateLimit.RequestsPerMinute)
}
