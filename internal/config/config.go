package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/tournevent/ratebridge/pkg/shipper/ups"
	"go.opentelemetry.io/otel/attribute"
)

// Config holds all configuration for the service.
type Config struct {
	// Server
	Port     int    `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile  string `envconfig:"LOG_FILE"`

	// UPS
	UPSEnabled       bool   `envconfig:"UPS_ENABLED" default:"true"`
	UPSUseMock       bool   `envconfig:"UPS_USE_MOCK" default:"false"`
	UPSBaseURL       string `envconfig:"UPS_BASE_URL" default:"https://wwwcie.ups.com"`
	UPSClientID      string `envconfig:"UPS_CLIENT_ID"`
	UPSClientSecret  string `envconfig:"UPS_CLIENT_SECRET"`
	UPSAccountNumber string `envconfig:"UPS_ACCOUNT_NUMBER"`
	UPSTokenPath     string `envconfig:"UPS_TOKEN_PATH" default:"/security/v1/oauth/token"`
	UPSRatePath      string `envconfig:"UPS_RATE_PATH" default:"/api/rating/v2409/Rate"`

	// Outbound HTTP
	HTTPTimeoutMS int `envconfig:"HTTP_TIMEOUT_MS" default:"10000"`

	// Telemetry
	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTELEndpoint string `envconfig:"OTEL_ENDPOINT" default:"http://localhost:4318"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"ratebridge"`
	Version      string `envconfig:"SERVICE_VERSION" default:"0.1.0"`
}

// Load reads configuration from environment variables.
// A .env file in the working directory, if present, is applied first;
// variables already set in the environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if cfg.HTTPTimeoutMS <= 0 {
		return nil, fmt.Errorf("loading config: HTTP_TIMEOUT_MS must be positive, got %d", cfg.HTTPTimeoutMS)
	}
	return &cfg, nil
}

// HTTPTimeout returns the per-request timeout for outbound carrier calls.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutMS) * time.Millisecond
}

// UPS returns the UPS client configuration.
func (c *Config) UPS() ups.Config {
	return ups.Config{
		BaseURL:       c.UPSBaseURL,
		ClientID:      c.UPSClientID,
		ClientSecret:  c.UPSClientSecret,
		AccountNumber: c.UPSAccountNumber,
		TokenPath:     c.UPSTokenPath,
		RatePath:      c.UPSRatePath,
		Timeout:       c.HTTPTimeout(),
		UseMock:       c.UPSUseMock,
	}
}

// Attributes returns OpenTelemetry attributes for this configuration.
func (c *Config) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("service.name", c.ServiceName),
		attribute.String("service.version", c.Version),
		attribute.Bool("ups.enabled", c.UPSEnabled),
		attribute.Bool("ups.mock", c.UPSUseMock),
	}
}
