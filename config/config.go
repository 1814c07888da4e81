// Package config loads the suite-wide configuration: a yaml file for the
// structured parts and environment overrides for the values that differ per
// worker (base URL, secrets, the Redis results store).
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/storeqa/api-common/cache"
	"github.com/storeqa/api-common/ratelimit"
	"github.com/storeqa/api-common/report"
)

// ClientConfig holds the retry budget for the API client
type ClientConfig struct {
	MaxAttempts    int           `yaml:"max_attempts" json:"max_attempts"`
	BaseBackoff    time.Duration `yaml:"base_backoff" json:"base_backoff"`
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
}

func (c *ClientConfig) ApplyDefaults() {
	if c.MaxAttempts == 0 {
		c.MaxAttempts = 3
	}
	if c.BaseBackoff == 0 {
		c.BaseBackoff = 500 * time.Millisecond
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 10 * time.Second
	}
}

// HealthConfig configures the background health monitor
type HealthConfig struct {
	Enabled  bool          `yaml:"enabled" json:"enabled"`
	Endpoint string        `yaml:"endpoint" json:"endpoint"`
	Interval time.Duration `yaml:"interval" json:"interval"`
}

func (c *HealthConfig) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "/productsList"
	}
	if c.Interval == 0 {
		c.Interval = 30 * time.Second
	}
}

// ReportConfig configures run reporting: the SLO thresholds and the optional
// Redis sink for cross-worker aggregation.
type ReportConfig struct {
	SLO  report.SLO        `yaml:"slo" json:"slo"`
	Sink report.SinkConfig `yaml:"sink" json:"sink"`
}

// Config is the top-level suite configuration
type Config struct {
	BaseURL    string                     `yaml:"base_url" json:"base_url"`
	Client     ClientConfig               `yaml:"client" json:"client"`
	Health     HealthConfig               `yaml:"health" json:"health"`
	Report     ReportConfig               `yaml:"report" json:"report"`
	RateLimits map[string]ratelimit.Limit `yaml:"rate_limits" json:"rate_limits"`
	Cache      cache.BigCacheConfig       `yaml:"cache" json:"cache"`
}

func (c *Config) ApplyDefaults() {
	c.Client.ApplyDefaults()
	c.Health.ApplyDefaults()
	c.Report.Sink.ApplyDefaults()
	c.Cache.ApplyDefaults()
}

// Env holds the per-worker settings that come from the environment rather
// than the shared yaml file.
type Env struct {
	BaseURL    string `envconfig:"API_BASE_URL"`
	RedisURL   string `envconfig:"RESULTS_REDIS_URL"`
	RunSecret  string `envconfig:"RUN_TOKEN_SECRET"`
	WorkerName string `envconfig:"WORKER_NAME" default:"worker-0"`
}

// Load reads and validates a yaml configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.ApplyDefaults()
	return cfg, nil
}

// FromEnv reads the per-worker environment settings
func FromEnv() (*Env, error) {
	env := &Env{}
	if err := envconfig.Process("", env); err != nil {
		return nil, fmt.Errorf("failed to read environment config: %w", err)
	}
	return env, nil
}

// Merge applies environment overrides onto the file configuration
func (c *Config) Merge(env *Env) {
	if env.BaseURL != "" {
		c.BaseURL = env.BaseURL
	}
}
