package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the archive tool
type Config struct {
	// Twitter guest API settings
	Twitter TwitterConfig `yaml:"twitter" json:"twitter"`

	// Rate limiting configuration
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Media download settings
	Media MediaConfig `yaml:"media" json:"media"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// TwitterConfig holds guest API endpoints and request settings
type TwitterConfig struct {
	// BootstrapURL is the page scraped for script bundles at startup
	BootstrapURL string `yaml:"bootstrap_url" json:"bootstrap_url"`
	// APIBase is the REST API host used for guest token activation
	APIBase string `yaml:"api_base" json:"api_base"`
	// GraphQLBase is the prefix for GraphQL query URLs
	GraphQLBase string `yaml:"graphql_base" json:"graphql_base"`
	// UserAgent sent on every request
	UserAgent string `yaml:"user_agent" json:"user_agent"`
	// HTTPTimeout bounds each individual request
	HTTPTimeout time.Duration `yaml:"http_timeout" json:"http_timeout"`
	// SchemaDir is the directory (relative to the archive root) where
	// discovered query descriptors are persisted
	SchemaDir string `yaml:"schema_dir" json:"schema_dir"`
	// SchemaRetryLimit caps the adaptive schema-patch retry loop
	SchemaRetryLimit int `yaml:"schema_retry_limit" json:"schema_retry_limit"`
}

// RateLimitConfig holds request pacing configuration
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" json:"requests_per_minute"`
}

// MediaConfig holds media download configuration
type MediaConfig struct {
	// Directory is the media subdirectory name under the archive root
	Directory string `yaml:"directory" json:"directory"`
	// DownloadTimeout bounds each media fetch
	DownloadTimeout time.Duration `yaml:"download_timeout" json:"download_timeout"`
	// RetryAttempts is the number of attempts per media file
	RetryAttempts int `yaml:"retry_attempts" json:"retry_attempts"`
	// RetryDelay is the fixed delay between media retry attempts
	RetryDelay time.Duration `yaml:"retry_delay" json:"retry_delay"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Twitter: TwitterConfig{
			BootstrapURL:     "https://twitter.com",
			APIBase:          "https://api.twitter.com",
			GraphQLBase:      "https://twitter.com/i/api/graphql",
			UserAgent:        "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
			HTTPTimeout:      30 * time.Second,
			SchemaDir:        "query_schemas",
			SchemaRetryLimit: 10,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 60,
		},
		Media: MediaConfig{
			Directory:       "other_media",
			DownloadTimeout: 60 * time.Second,
			RetryAttempts:   3,
			RetryDelay:      2 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration overrides from environment variables
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("TWARC_BOOTSTRAP_URL"); v != "" {
		c.Twitter.BootstrapURL = v
	}
	if v := os.Getenv("TWARC_API_BASE"); v != "" {
		c.Twitter.APIBase = v
	}
	if v := os.Getenv("TWARC_GRAPHQL_BASE"); v != "" {
		c.Twitter.GraphQLBase = v
	}
	if v := os.Getenv("TWARC_USER_AGENT"); v != "" {
		c.Twitter.UserAgent = v
	}
	if v := os.Getenv("TWARC_REQUESTS_PER_MINUTE"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val >= 0 {
			c.RateLimit.RequestsPerMinute = val
		}
	}
	if v := os.Getenv("TWARC_MEDIA_DIR"); v != "" {
		c.Media.Directory = v
	}
	if v := os.Getenv("TWARC_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("TWARC_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for a config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".twitterarchive.yaml",
		".twitterarchive.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "twitterarchive", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".twitterarchive.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}
	return ""
}

// ApplyFlags overlays command-line flag values onto the configuration
func (c *Config) ApplyFlags(flags map[string]interface{}) {
	for key, value := range flags {
		switch key {
		case "bootstrap-url":
			if v, ok := value.(string); ok {
				c.Twitter.BootstrapURL = v
			}
		case "requests-per-minute":
			if v, ok := value.(int); ok {
				c.RateLimit.RequestsPerMinute = v
			}
		case "media-dir":
			if v, ok := value.(string); ok {
				c.Media.Directory = v
			}
		case "log-level":
			if v, ok := value.(string); ok {
				c.Logging.Level = v
			}
		}
	}
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if c.Twitter.BootstrapURL == "" {
		return fmt.Errorf("twitter.bootstrap_url must not be empty")
	}
	if c.Twitter.APIBase == "" {
		return fmt.Errorf("twitter.api_base must not be empty")
	}
	if c.Twitter.GraphQLBase == "" {
		return fmt.Errorf("twitter.graphql_base must not be empty")
	}
	if c.Twitter.SchemaRetryLimit < 1 {
		return fmt.Errorf("twitter.schema_retry_limit must be at least 1")
	}
	if c.RateLimit.RequestsPerMinute < 0 {
		return fmt.Errorf("rate_limit.requests_per_minute must not be negative")
	}
	if c.Media.Directory == "" {
		return fmt.Errorf("media.directory must not be empty")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error", "fatal", "disabled":
	default:
		return fmt.Errorf("logging.level %q is not a valid level", c.Logging.Level)
	}
	return nil
}

// Load builds the effective configuration: defaults, then config file,
// then environment variables, then command-line flags.
func Load(configFile string, flags map[string]interface{}) (*Config, error) {
	// .env files are a convenience for development setups
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if err := cfg.LoadFromFile(configFile); err != nil {
		return nil, err
	}
	if err := cfg.LoadFromEnv(); err != nil {
		return nil, err
	}
	cfg.ApplyFlags(flags)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
