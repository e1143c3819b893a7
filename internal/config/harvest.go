// Package config assembles the harvester's runtime settings.
//
// Settings are resolved in three layers: built-in defaults, an optional YAML
// file named by HARVESTER_CONFIG, then environment variables. Environment
// values are loaded fail-open: an invalid value keeps the lower layer's value,
// logs a warning and is counted on the config metrics.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"oai-harvester/internal/infra/oaipmh"
	loader "oai-harvester/internal/pkg/config"
	"oai-harvester/internal/usecase/harvest"
	envconfig "oai-harvester/pkg/config"
)

// FileEnv names the environment variable holding the optional YAML file path.
const FileEnv = "HARVESTER_CONFIG"

// ErrMissingDatabaseURL is returned when no DSN is configured.
var ErrMissingDatabaseURL = errors.New("DATABASE_URL is required")

// HarvestConfig holds every setting the binaries need.
type HarvestConfig struct {
	// DatabaseURL is a postgres:// DSN or a sqlite:// / file: path.
	DatabaseURL string `yaml:"database_url"`

	// HTTPTimeout bounds a single OAI-PMH request. Range: 1s-10m. Default: 60s
	HTTPTimeout time.Duration `yaml:"http_timeout"`

	// MaxPages bounds one harvest's pagination. Range: 1-1,000,000. Default: 10000
	MaxPages int `yaml:"max_pages"`

	// MaxDuration bounds one harvest's wall-clock time. Range: 1m-72h. Default: 6h
	MaxDuration time.Duration `yaml:"max_duration"`

	// MaxAttempts per page request; 1 disables retry. Range: 1-10. Default: 1
	MaxAttempts int `yaml:"max_attempts"`

	// RequestsPerSecond paces requests per client; 0 is unlimited. Default: 0
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	// UserAgent is sent on every outbound request. Default: "oai-harvester/1.0"
	UserAgent string `yaml:"user_agent"`

	// Parallelism bounds concurrent sources in a batch. Range: 1-32. Default: 4
	Parallelism int `yaml:"parallelism"`

	// DefaultMetadataPrefix applies when neither caller nor source names one.
	DefaultMetadataPrefix string `yaml:"default_metadata_prefix"`

	// Port is the API listen port. Default: 8080
	Port int `yaml:"port"`

	// MetricsPort serves /metrics separately when it differs from Port. Default: 9090
	MetricsPort int `yaml:"metrics_port"`

	// AllowPrivateEndpoints lets sources point at loopback or private hosts.
	AllowPrivateEndpoints bool `yaml:"allow_private_endpoints"`
}

// DefaultHarvestConfig returns the built-in defaults.
func DefaultHarvestConfig() HarvestConfig {
	return HarvestConfig{
		HTTPTimeout:           60 * time.Second,
		MaxPages:              10000,
		MaxDuration:           6 * time.Hour,
		MaxAttempts:           1,
		RequestsPerSecond:     0,
		UserAgent:             "oai-harvester/1.0",
		Parallelism:           4,
		DefaultMetadataPrefix: "oai_dc",
		Port:                  8080,
		MetricsPort:           9090,
	}
}

// Validate checks every field and returns all violations together.
func (c *HarvestConfig) Validate() error {
	var errs []error

	if c.DatabaseURL == "" {
		errs = append(errs, ErrMissingDatabaseURL)
	}
	if err := loader.ValidateDuration(c.HTTPTimeout, time.Second, 10*time.Minute); err != nil {
		errs = append(errs, fmt.Errorf("http timeout: %w", err))
	}
	if err := loader.ValidateIntRange(c.MaxPages, 1, 1_000_000); err != nil {
		errs = append(errs, fmt.Errorf("max pages: %w", err))
	}
	if err := loader.ValidateDuration(c.MaxDuration, time.Minute, 72*time.Hour); err != nil {
		errs = append(errs, fmt.Errorf("max duration: %w", err))
	}
	if err := loader.ValidateIntRange(c.MaxAttempts, 1, 10); err != nil {
		errs = append(errs, fmt.Errorf("max attempts: %w", err))
	}
	if err := loader.ValidateFloatRange(c.RequestsPerSecond, 0, 100); err != nil {
		errs = append(errs, fmt.Errorf("requests per second: %w", err))
	}
	if c.UserAgent == "" {
		errs = append(errs, errors.New("user agent: cannot be empty"))
	}
	if err := loader.ValidateIntRange(c.Parallelism, 1, 32); err != nil {
		errs = append(errs, fmt.Errorf("parallelism: %w", err))
	}
	if err := loader.ValidateMetadataPrefix(c.DefaultMetadataPrefix); err != nil {
		errs = append(errs, fmt.Errorf("default metadata prefix: %w", err))
	}
	if err := loader.ValidateIntRange(c.Port, 1, 65535); err != nil {
		errs = append(errs, fmt.Errorf("port: %w", err))
	}
	if err := loader.ValidateIntRange(c.MetricsPort, 1, 65535); err != nil {
		errs = append(errs, fmt.Errorf("metrics port: %w", err))
	}

	return errors.Join(errs...)
}

// LoadHarvestFile overlays the YAML file at path onto cfg.
// Keys absent from the file keep their current values.
// The path is expected to come from the operator's environment.
func LoadHarvestFile(path string, cfg *HarvestConfig) error {
	// #nosec G304 -- path is provided by the operator, not user input
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// Load resolves the configuration from defaults, the optional YAML file and
// the environment, then validates the result.
//
// A missing or malformed YAML file and a missing DATABASE_URL are errors;
// invalid environment values are not. metrics may be nil.
func Load(logger *slog.Logger, metrics *loader.ConfigMetrics) (*HarvestConfig, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cfg := DefaultHarvestConfig()

	if path := envconfig.GetEnvString(FileEnv, ""); path != "" {
		if err := LoadHarvestFile(path, &cfg); err != nil {
			return nil, err
		}
		logger.Info("configuration file loaded", slog.String("path", path))
	}

	fallbackApplied := false
	track := func(field string, result loader.ConfigLoadResult) {
		if !result.FallbackApplied {
			return
		}
		fallbackApplied = true
		if metrics != nil {
			metrics.RecordValidationError(field)
			metrics.RecordFallback(field, "default")
		}
		for _, warning := range result.Warnings {
			logger.Warn("Configuration fallback applied",
				slog.String("field", field),
				slog.String("warning", warning))
		}
	}

	cfg.DatabaseURL = envconfig.GetEnvString("DATABASE_URL", cfg.DatabaseURL)

	result := loader.LoadEnvDuration("OAI_HTTP_TIMEOUT", cfg.HTTPTimeout, func(d time.Duration) error {
		return loader.ValidateDuration(d, time.Second, 10*time.Minute)
	})
	cfg.HTTPTimeout = result.Value.(time.Duration)
	track("http_timeout", result)

	result = loader.LoadEnvInt("OAI_MAX_PAGES", cfg.MaxPages, func(v int) error {
		return loader.ValidateIntRange(v, 1, 1_000_000)
	})
	cfg.MaxPages = result.Value.(int)
	track("max_pages", result)

	result = loader.LoadEnvDuration("OAI_MAX_DURATION", cfg.MaxDuration, func(d time.Duration) error {
		return loader.ValidateDuration(d, time.Minute, 72*time.Hour)
	})
	cfg.MaxDuration = result.Value.(time.Duration)
	track("max_duration", result)

	result = loader.LoadEnvInt("OAI_MAX_ATTEMPTS", cfg.MaxAttempts, func(v int) error {
		return loader.ValidateIntRange(v, 1, 10)
	})
	cfg.MaxAttempts = result.Value.(int)
	track("max_attempts", result)

	result = loader.LoadEnvFloat("OAI_REQUESTS_PER_SECOND", cfg.RequestsPerSecond, func(v float64) error {
		return loader.ValidateFloatRange(v, 0, 100)
	})
	cfg.RequestsPerSecond = result.Value.(float64)
	track("requests_per_second", result)

	cfg.UserAgent = loader.LoadEnvString("OAI_USER_AGENT", cfg.UserAgent)

	result = loader.LoadEnvInt("HARVEST_PARALLELISM", cfg.Parallelism, func(v int) error {
		return loader.ValidateIntRange(v, 1, 32)
	})
	cfg.Parallelism = result.Value.(int)
	track("parallelism", result)

	result = loader.LoadEnvWithFallback("DEFAULT_METADATA_PREFIX", cfg.DefaultMetadataPrefix, loader.ValidateMetadataPrefix)
	cfg.DefaultMetadataPrefix = result.Value.(string)
	track("default_metadata_prefix", result)

	result = loader.LoadEnvInt("PORT", cfg.Port, func(v int) error {
		return loader.ValidateIntRange(v, 1, 65535)
	})
	cfg.Port = result.Value.(int)
	track("port", result)

	result = loader.LoadEnvInt("METRICS_PORT", cfg.MetricsPort, func(v int) error {
		return loader.ValidateIntRange(v, 1, 65535)
	})
	cfg.MetricsPort = result.Value.(int)
	track("metrics_port", result)

	result = loader.LoadEnvBool("OAI_ALLOW_PRIVATE_ENDPOINTS", cfg.AllowPrivateEndpoints)
	cfg.AllowPrivateEndpoints = result.Value.(bool)
	track("allow_private_endpoints", result)

	if metrics != nil {
		metrics.SetFallbackActive("", fallbackApplied)
		metrics.RecordLoadTimestamp()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// ClientConfig maps the settings onto the OAI-PMH client.
func (c *HarvestConfig) ClientConfig() oaipmh.Config {
	cc := oaipmh.DefaultConfig()
	cc.Timeout = c.HTTPTimeout
	cc.MaxAttempts = c.MaxAttempts
	cc.RequestsPerSecond = c.RequestsPerSecond
	cc.UserAgent = c.UserAgent
	cc.MaxPages = c.MaxPages
	return cc
}

// ServiceConfig maps the settings onto the harvest use case.
func (c *HarvestConfig) ServiceConfig() harvest.Config {
	return harvest.Config{
		MaxPages:              c.MaxPages,
		MaxDuration:           c.MaxDuration,
		DefaultMetadataPrefix: c.DefaultMetadataPrefix,
		Parallelism:           c.Parallelism,
	}
}
