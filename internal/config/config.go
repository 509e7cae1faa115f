package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

type Config struct {
	Title           string        `yaml:"title"`
	LogLevel        string        `yaml:"log_level"`
	FreshnessWindow time.Duration `yaml:"freshness_window"`
	CategoryOrder   []string      `yaml:"category_order"`
	Sources         []Source      `yaml:"sources"`
	Social          SocialConfig  `yaml:"social"`
	Fetch           FetchConfig   `yaml:"fetch"`
	Digest          DigestConfig  `yaml:"digest"`
	Weights         WeightsConfig `yaml:"weights"`
	Output          OutputConfig  `yaml:"output"`
	Email           EmailConfig   `yaml:"email"`
}

type Source struct {
	URL      string `yaml:"url"`
	Category string `yaml:"category"`
}

type SocialConfig struct {
	Enabled      bool     `yaml:"enabled"`
	BearerToken  string   `yaml:"bearer_token"`
	Handles      []string `yaml:"handles"`
	MaxPerHandle int      `yaml:"max_per_handle"`
	Category     string   `yaml:"category"`
}

type FetchConfig struct {
	Timeout time.Duration `yaml:"timeout"`
	Workers int           `yaml:"workers"`
	Retry   RetryConfig   `yaml:"retry"`
}

type RetryConfig struct {
	MaxAttempts    int           `yaml:"max_attempts"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff"`
}

type DigestConfig struct {
	MaxSummaryLen      int     `yaml:"max_summary_len"`
	MaxItemsPerSection int     `yaml:"max_items_per_section"`
	MinTopScore        float64 `yaml:"min_top_score"`
}

type WeightsConfig struct {
	Sources  map[string]float64  `yaml:"sources"`
	Keywords map[string][]string `yaml:"keywords"`
}

type OutputConfig struct {
	Path     string `yaml:"path"`
	Format   Format `yaml:"format"`
	Timezone string `yaml:"timezone"`
}

// Location resolves the configured timezone.
func (o OutputConfig) Location() (*time.Location, error) {
	return time.LoadLocation(o.Timezone)
}

type EmailConfig struct {
	Enabled  bool     `yaml:"enabled"`
	SMTPHost string   `yaml:"smtp_host"`
	SMTPPort int      `yaml:"smtp_port"`
	Username string   `yaml:"username"`
	Password string   `yaml:"password"`
	FromName string   `yaml:"from_name"`
	To       []string `yaml:"to"`
}

// Load reads the YAML config at path. Environment references like
// ${X_BEARER_TOKEN} are expanded before parsing, so secrets can live in
// the environment or a .env file instead of the config itself. Unknown
// fields are ignored.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Title == "" {
		c.Title = "Daily Market Brief"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.FreshnessWindow == 0 {
		c.FreshnessWindow = 24 * time.Hour
	}
	if c.Social.MaxPerHandle == 0 {
		c.Social.MaxPerHandle = 5
	}
	if c.Social.Category == "" {
		c.Social.Category = "Social"
	}
	if c.Fetch.Timeout == 0 {
		c.Fetch.Timeout = 20 * time.Second
	}
	if c.Fetch.Workers == 0 {
		c.Fetch.Workers = 4
	}
	if c.Fetch.Retry.MaxAttempts == 0 {
		c.Fetch.Retry.MaxAttempts = 3
	}
	if c.Fetch.Retry.InitialBackoff == 0 {
		c.Fetch.Retry.InitialBackoff = 1 * time.Second
	}
	if c.Fetch.Retry.MaxBackoff == 0 {
		c.Fetch.Retry.MaxBackoff = 30 * time.Second
	}
	if c.Digest.MaxSummaryLen == 0 {
		c.Digest.MaxSummaryLen = 280
	}
	if c.Digest.MaxItemsPerSection == 0 {
		c.Digest.MaxItemsPerSection = 12
	}
	if c.Digest.MinTopScore == 0 {
		c.Digest.MinTopScore = 2.0
	}
	if c.Output.Format == "" {
		c.Output.Format = FormatMarkdown
	}
	if c.Output.Timezone == "" {
		c.Output.Timezone = "UTC"
	}
	if c.Email.SMTPPort == 0 {
		c.Email.SMTPPort = 587
	}
}

func (c *Config) validate() error {
	if len(c.Sources) == 0 {
		return fmt.Errorf("config: at least one source is required")
	}
	for i, s := range c.Sources {
		if s.URL == "" {
			return fmt.Errorf("config: sources[%d] has no url", i)
		}
	}
	if c.Output.Format != FormatMarkdown && c.Output.Format != FormatHTML {
		return fmt.Errorf("config: unknown output format %q", c.Output.Format)
	}
	if _, err := c.Output.Location(); err != nil {
		return fmt.Errorf("config: bad timezone %q: %w", c.Output.Timezone, err)
	}
	if c.Social.Enabled && len(c.Social.Handles) == 0 {
		return fmt.Errorf("config: social.enabled requires at least one handle")
	}
	return nil
}
