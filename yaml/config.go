// Package yaml loads harvester configuration: download settings, storage
// roots, and the sources manifest. Missing keys fall back to defaults;
// absence of a whole block is equivalent to all defaults.
package yaml

import (
	"os"
	"time"

	"github.com/fwojciec/harvest"
	"gopkg.in/yaml.v3"
)

// Defaults applied to missing download settings.
const (
	DefaultUserAgent      = "harvest/1.0"
	DefaultTimeoutSeconds = 30
	DefaultMaxRetries     = 3
	DefaultDelaySeconds   = 1.0
)

// DownloadSettings configures the retriever.
type DownloadSettings struct {
	UserAgent            string  `yaml:"user_agent"`
	TimeoutSeconds       float64 `yaml:"timeout_seconds"`
	MaxRetries           int     `yaml:"max_retries"`
	DelayBetweenRequests float64 `yaml:"delay_between_requests"`
	VerifySSL            *bool   `yaml:"verify_ssl"`
}

// Timeout returns the per-attempt timeout as a duration.
func (s DownloadSettings) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds * float64(time.Second))
}

// Delay returns the inter-request delay as a duration.
func (s DownloadSettings) Delay() time.Duration {
	return time.Duration(s.DelayBetweenRequests * float64(time.Second))
}

// Verify reports whether TLS certificates should be verified.
func (s DownloadSettings) Verify() bool {
	return s.VerifySSL == nil || *s.VerifySSL
}

// Paths configures the three storage roots, relative to the base directory.
type Paths struct {
	Materials string `yaml:"materials"`
	Extracted string `yaml:"extracted"`
	Metadata  string `yaml:"metadata"`
}

// Config is the full harvester configuration.
type Config struct {
	DownloadSettings DownloadSettings          `yaml:"download_settings"`
	Paths            Paths                     `yaml:"paths"`
	Sources          map[string]harvest.Source `yaml:"sources"`
}

// Load reads and parses the configuration file at path, applying defaults
// for any missing settings.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, harvest.Errorf(harvest.ENOTFOUND, "read config %s: %v", path, err)
	}
	return Parse(data)
}

// Parse parses configuration from raw YAML, applying defaults for any
// missing settings.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, harvest.Errorf(harvest.EINVALID, "parse config: %v", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DownloadSettings.UserAgent == "" {
		c.DownloadSettings.UserAgent = DefaultUserAgent
	}
	if c.DownloadSettings.TimeoutSeconds <= 0 {
		c.DownloadSettings.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if c.DownloadSettings.MaxRetries < 1 {
		c.DownloadSettings.MaxRetries = DefaultMaxRetries
	}
	if c.DownloadSettings.DelayBetweenRequests <= 0 {
		c.DownloadSettings.DelayBetweenRequests = DefaultDelaySeconds
	}
	if c.Paths.Materials == "" {
		c.Paths.Materials = "data/materials"
	}
	if c.Paths.Extracted == "" {
		c.Paths.Extracted = "data/extracted"
	}
	if c.Paths.Metadata == "" {
		c.Paths.Metadata = "data/metadata"
	}
}
