package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"retailpulse/internal/errors"
)

// envPrefix is the prefix for all environment variable overrides,
// e.g. RETAILPULSE_SERVER_PORT.
const envPrefix = "RETAILPULSE"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Report    ReportConfig    `yaml:"report" envconfig:"REPORT"`
	RateLimit RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// ServerConfig contains HTTP server configuration for the operator web UI
type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"HOST"`
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// ReportConfig contains presentation defaults for the generated dashboard
type ReportConfig struct {
	Title           string `yaml:"title" envconfig:"TITLE"`
	DefaultCurrency string `yaml:"default_currency" envconfig:"DEFAULT_CURRENCY"`
	PreviewRows     int    `yaml:"preview_rows" envconfig:"PREVIEW_ROWS"`
}

// RateLimitConfig contains rate limiting configuration for the web surface
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// Default returns the built-in configuration. The web UI binds to localhost
// only; the tool serves a single operator.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            8510,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			MaxUploadBytes:  64 << 20,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "stdout",
			FilePath: "logs/retailpulse.log",
		},
		Report: ReportConfig{
			Title:           "Retail Performance Analytics",
			DefaultCurrency: "INR",
			PreviewRows:     5,
		},
		RateLimit: RateLimitConfig{
			Enabled: true,
			RPS:     10,
			Burst:   20,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file, and
// environment variable overrides, in that order of precedence (env wins).
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, errors.NewConfigError(fmt.Sprintf("failed to read config file %s", configFile), err)
			}
			// Missing file is fine unless the operator pointed at one explicitly;
			// callers pass "" when no file was requested.
		} else {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, errors.NewConfigError(fmt.Sprintf("failed to parse config file %s", configFile), err)
			}
		}
	}

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, errors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, errors.NewConfigError("config validation failed", err)
	}

	return cfg, nil
}

// validate checks the configuration for invalid values
func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload bytes must be positive, got %d", c.Server.MaxUploadBytes)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}
	switch c.Logging.Output {
	case "stdout", "stderr", "file", "both":
	default:
		return fmt.Errorf("invalid log output: %s", c.Logging.Output)
	}
	if c.Logging.Output == "file" || c.Logging.Output == "both" {
		if c.Logging.FilePath == "" {
			return fmt.Errorf("log file path required for output mode %s", c.Logging.Output)
		}
	}

	switch c.Report.DefaultCurrency {
	case "INR", "USD":
	default:
		return fmt.Errorf("invalid default currency: %s", c.Report.DefaultCurrency)
	}
	if c.Report.PreviewRows < 0 {
		return fmt.Errorf("preview rows must not be negative, got %d", c.Report.PreviewRows)
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.RPS <= 0 {
			return fmt.Errorf("rate limit rps must be positive, got %f", c.RateLimit.RPS)
		}
		if c.RateLimit.Burst <= 0 {
			return fmt.Errorf("rate limit burst must be positive, got %d", c.RateLimit.Burst)
		}
	}

	return nil
}

// ListenAddr returns the host:port address for the HTTP server
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
