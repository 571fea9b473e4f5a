package config

import (
	"fmt"

	pkgconfig "github.com/shaha-expressitbd/shoppingbd-sub000/pkg/config"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`

	// Redis
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Session store TTL in hours (default: 7 days, matching how long an
	// abandoned browser cart survives)
	StoreTTL int `env:"STORE_TTL_HOURS" envDefault:"168"`

	// Upstream commerce API
	CatalogBaseURL   string `env:"CATALOG_BASE_URL" envDefault:"http://localhost:9000"`
	OrderBaseURL     string `env:"ORDER_BASE_URL" envDefault:"http://localhost:9000"`
	BusinessID       string `env:"BUSINESS_ID" envDefault:""`
	SettingsCacheTTL int    `env:"SETTINGS_CACHE_TTL_MINUTES" envDefault:"5"`

	// Public site base URL, used to build the order-status redirect for
	// cash-on-delivery orders
	SiteBaseURL string `env:"SITE_BASE_URL" envDefault:"http://localhost:3000"`

	// Checkout rate limiting (per IP)
	CheckoutRPS   int `env:"CHECKOUT_RATE_LIMIT_RPS" envDefault:"2"`
	CheckoutBurst int `env:"CHECKOUT_RATE_LIMIT_BURST" envDefault:"5"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// CORS
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Tracing
	TracingEnabled  bool    `env:"TRACING_ENABLED" envDefault:"false"`
	OTLPEndpoint    string  `env:"OTLP_ENDPOINT" envDefault:"localhost:4318"`
	TraceSampleRate float64 `env:"TRACE_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.StoreTTL < 1 {
		return fmt.Errorf("invalid store TTL: %d", c.StoreTTL)
	}
	return nil
}
