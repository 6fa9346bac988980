package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/teemow/eventcal/eventcal"
	"github.com/teemow/eventcal/internal/logging"
	"github.com/teemow/eventcal/internal/transport"
)

// Environment variables read by Load.
const (
	EnvAPIKey     = "EVENTCAL_API_KEY"
	EnvBaseURL    = "EVENTCAL_BASE_URL"
	EnvTimeout    = "EVENTCAL_TIMEOUT"
	EnvRateLimit  = "EVENTCAL_RATE_LIMIT"
	EnvLogLevel   = "EVENTCAL_LOG_LEVEL"
	EnvLogFormat  = "EVENTCAL_LOG_FORMAT"
	EnvConfigFile = "EVENTCAL_CONFIG"
)

// Config is the complete runtime configuration.
type Config struct {
	API    APIConfig    `yaml:"api"`
	Log    LogConfig    `yaml:"log"`
	Server ServerConfig `yaml:"server"`
}

// APIConfig holds the connection settings.
type APIConfig struct {
	Key       string        `yaml:"key"`
	BaseURL   string        `yaml:"base_url"`
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`
	RateLimit float64       `yaml:"rate_limit"`
	Burst     int           `yaml:"burst"`
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ServerConfig holds MCP server settings.
type ServerConfig struct {
	Transport   string `yaml:"transport"`
	HTTPAddr    string `yaml:"http_addr"`
	MetricsAddr string `yaml:"metrics_addr"`
	Yolo        bool   `yaml:"yolo"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:   transport.DefaultBaseURL,
			UserAgent: transport.DefaultUserAgent,
			Timeout:   transport.DefaultTimeout,
		},
		Log: LogConfig{
			Level:  "info",
			Format: logging.FormatText,
		},
		Server: ServerConfig{
			Transport: "stdio",
			HTTPAddr:  ":8080",
		},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		expandedData := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expandedData), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.API.Key = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvTimeout, err)
		}
		c.API.Timeout = d
	}
	if v := os.Getenv(EnvRateLimit); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvRateLimit, err)
		}
		c.API.RateLimit = rps
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Log.Format = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	d := Default()
	if c.API.BaseURL == "" {
		c.API.BaseURL = d.API.BaseURL
	}
	if c.API.UserAgent == "" {
		c.API.UserAgent = d.API.UserAgent
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = d.API.Timeout
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
	if c.Server.Transport == "" {
		c.Server.Transport = d.Server.Transport
	}
	if c.Server.HTTPAddr == "" {
		c.Server.HTTPAddr = d.Server.HTTPAddr
	}
}

// Validate checks the configuration. A missing API key is not an error
// here; commands that call the API report it when building the client.
func (c *Config) Validate() error {
	var errs []error

	if c.API.Timeout < 0 {
		errs = append(errs, errors.New("api.timeout must not be negative"))
	}
	if c.API.RateLimit < 0 {
		errs = append(errs, errors.New("api.rate_limit must not be negative"))
	}
	if c.API.Burst < 0 {
		errs = append(errs, errors.New("api.burst must not be negative"))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case logging.FormatText, logging.FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("log.format must be %q or %q, got %q", logging.FormatText, logging.FormatJSON, c.Log.Format))
	}
	switch c.Server.Transport {
	case "stdio", "streamable-http":
	default:
		errs = append(errs, fmt.Errorf("server.transport must be stdio or streamable-http, got %q", c.Server.Transport))
	}

	return errors.Join(errs...)
}

// ClientOptions converts the API settings into client options.
func (c *Config) ClientOptions(logger *slog.Logger) eventcal.Options {
	return eventcal.Options{
		APIKey:            c.API.Key,
		BaseURL:           c.API.BaseURL,
		UserAgent:         c.API.UserAgent,
		Timeout:           c.API.Timeout,
		RequestsPerSecond: c.API.RateLimit,
		Burst:             c.API.Burst,
		Logger:            logger,
	}
}
