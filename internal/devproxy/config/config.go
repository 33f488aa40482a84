package config

import (
	"fmt"
	"net/url"
	"time"

	pkgconfig "github.com/Palgie/luxury-beauty-app/pkg/config"
)

// Config holds all configuration for the development proxy.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	Port        int    `env:"PORT" envDefault:"3001"`

	// Upstream catalog API
	UpstreamURL     string        `env:"UPSTREAM_URL" envDefault:"https://horizon-api.www.lookfantastic.com"`
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"60s"`

	// Trust headers injected on every proxied request so the upstream
	// accepts traffic from local development clients.
	TrustClientIPKey string `env:"TRUST_CLIENT_IP_KEY" envDefault:"9hvnhUPKhOnK1deuXuSNduGh"`
	AltitudeInstance string `env:"ALTITUDE_INSTANCE" envDefault:"lookfantastic"`
	HorizonClient    string `env:"HORIZON_CLIENT" envDefault:"luxury-storefront"`
	TrustedClientIP  string `env:"TRUSTED_CLIENT_IP" envDefault:"151.101.1.1"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load devproxy config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	u, err := url.Parse(c.UpstreamURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("UPSTREAM_URL must be an absolute URL, got %q", c.UpstreamURL)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	return nil
}
