// Package config provides configuration loading and validation for the
// postsphere CLI and server.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Defaults applied when neither the config file nor the environment set a value.
const (
	DefaultPort           = 8080
	DefaultLogLevel       = "info"
	DefaultPublishDelay   = time.Second
	DefaultMaxConcurrency = 4
)

// Environment variable names.
const (
	EnvAPIKey         = "GEMINI_API_KEY"
	EnvModel          = "POSTSPHERE_MODEL"
	EnvPort           = "PORT"
	EnvLogLevel       = "LOG_LEVEL"
	EnvPublishDelay   = "POSTSPHERE_PUBLISH_DELAY"
	EnvMaxConcurrency = "POSTSPHERE_MAX_CONCURRENCY"
)

// Config holds runtime settings. All fields are optional in a config file;
// the API key is never compiled in and must arrive at runtime.
type Config struct {
	APIKey         string `json:"api_key,omitempty"`
	Model          string `json:"model,omitempty"`
	Port           int    `json:"port,omitempty" validate:"omitempty,min=1,max=65535"`
	LogLevel       string `json:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	PublishDelay   string `json:"publish_delay,omitempty"`
	MaxConcurrency int    `json:"max_concurrency,omitempty" validate:"omitempty,min=1,max=32"`
	Verbose        bool   `json:"verbose,omitempty"`
}

// LoadConfig loads configuration from a JSON file.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are skipped; existing variables are not overridden.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load env file %s: %w", p, err)
		}
	}
	return nil
}

// FromEnv builds a Config from environment variables.
// Malformed numeric values are reported rather than silently dropped.
func FromEnv() (Config, error) {
	cfg := Config{
		APIKey:       os.Getenv(EnvAPIKey),
		Model:        os.Getenv(EnvModel),
		LogLevel:     os.Getenv(EnvLogLevel),
		PublishDelay: os.Getenv(EnvPublishDelay),
	}

	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("config error: %s must be an integer: %w", EnvPort, err)
		}
		cfg.Port = port
	}
	if v := os.Getenv(EnvMaxConcurrency); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("config error: %s must be an integer: %w", EnvMaxConcurrency, err)
		}
		cfg.MaxConcurrency = n
	}

	return cfg, nil
}

// Validate checks that the configuration has valid values.
// Required fields are checked by the commands that need them.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config error: '%s' failed '%s' validation", fe.Field(), fe.Tag())
		}
		return fmt.Errorf("config error: %w", err)
	}
	if c.PublishDelay != "" {
		d, err := time.ParseDuration(c.PublishDelay)
		if err != nil {
			return fmt.Errorf("config error: 'publish_delay' is not a duration: %w", err)
		}
		if d < 0 {
			return fmt.Errorf("config error: 'publish_delay' must be non-negative")
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// Values already set on c win.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.PublishDelay == "" {
		result.PublishDelay = defaults.PublishDelay
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.MaxConcurrency == 0 {
		result.MaxConcurrency = defaults.MaxConcurrency
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// Resolve layers environment over an optional config file and fills the
// remaining gaps with package defaults. The result is validated.
func Resolve(path string) (Config, error) {
	env, err := FromEnv()
	if err != nil {
		return Config{}, err
	}

	file := Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return Config{}, err
		}
		file = *loaded
	}

	merged := env.MergeWithDefaults(file)
	merged = merged.MergeWithDefaults(Config{
		Port:           DefaultPort,
		LogLevel:       DefaultLogLevel,
		PublishDelay:   DefaultPublishDelay.String(),
		MaxConcurrency: DefaultMaxConcurrency,
	})
	merged.Verbose = merged.Verbose || file.Verbose

	if err := merged.Validate(); err != nil {
		return Config{}, err
	}
	return merged, nil
}

// PublishDelayDuration returns the parsed publish delay, or the default.
func (c *Config) PublishDelayDuration() time.Duration {
	if c.PublishDelay == "" {
		return DefaultPublishDelay
	}
	d, err := time.ParseDuration(c.PublishDelay)
	if err != nil || d < 0 {
		return DefaultPublishDelay
	}
	return d
}

// RequireAPIKey returns an error when no API key is configured.
func (c *Config) RequireAPIKey() error {
	if c.APIKey == "" {
		return fmt.Errorf("API key is required (set %s environment variable, api_key in the config file, or use --api-key flag)", EnvAPIKey)
	}
	return nil
}
