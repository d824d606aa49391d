// Package config provides configuration structures and validation for the
// donation backend. It handles environment-based configuration for the HTTP
// server, PostgreSQL, the exchange-rate source, both payment providers, and
// administrative access.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds the complete application configuration. Each field represents
// a major subsystem's configuration and is validated during startup.
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Server      ServerConfig
	Postgres    PostgresConfig
	HTTPClient  HTTPClientConfig
	Rates       RatesConfig
	MercadoPago MercadoPagoConfig
	PayPal      PayPalConfig
	Admin       AdminConfig
}

// ApplicationConfig contains general application configuration
type ApplicationConfig struct {
	Env  string
	Name string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port            int           // Port to listen on
	ShutdownTimeout time.Duration // Grace period for server shutdown
	ReadTimeout     time.Duration // Maximum duration for reading entire request
	WriteTimeout    time.Duration // Maximum duration for writing response
	IdleTimeout     time.Duration // Maximum duration to wait for next request
	CORSOrigin      string        // Allowed origin for the public page ("*" allows any)
}

// PostgresConfig contains PostgreSQL configuration
type PostgresConfig struct {
	URL             string        // Database connection string
	MaxConns        int32         // Maximum number of open connections
	MinConns        int32         // Minimum number of idle connections
	ConnMaxLifetime time.Duration // Maximum lifetime of a connection
	ConnMaxIdleTime time.Duration // Maximum idle time of a connection
	MigrationsPath  string        // Path to migration files
}

// HTTPClientConfig bounds outbound calls to the rate source and both payment
// provider APIs.
type HTTPClientConfig struct {
	Timeout time.Duration
}

// RatesConfig configures the USD-ARS exchange rate provider.
type RatesConfig struct {
	CSVURL            string          // Text source for the rate; empty means unconfigured
	CacheTTL          time.Duration   // How long a fetched rate stays fresh
	FallbackARSPerUSD decimal.Decimal // Used for checkout estimates when the source is down
}

// MercadoPagoConfig contains MercadoPago API settings. An empty access token
// is tolerated at startup; operations that need it fail individually.
type MercadoPagoConfig struct {
	AccessToken     string
	BaseURL         string
	NotificationURL string // Where MercadoPago delivers webhook notifications
	BackURLBase     string // Donor-facing redirect base after checkout
}

// PayPalConfig contains PayPal API credentials. Env selects the API host
// (sandbox or live). WebhookID enables webhook signature verification when set.
type PayPalConfig struct {
	ClientID     string
	ClientSecret string
	Env          string
	WebhookID    string
	ReturnURL    string // Fallback return URL when the caller supplies none
}

// AdminConfig contains the shared secret protecting administrative endpoints.
type AdminConfig struct {
	Token string
}

// validate checks the configuration values the process needs to start.
// Provider credentials and the rate source URL are deliberately not required
// here: their absence is surfaced per operation so the rest of the service
// keeps working without them.
func (c *Config) validate() error {
	var validationErrors []string

	// Validate Server config
	if c.Server.Port <= 0 {
		validationErrors = append(validationErrors, "SERVER_PORT must be greater than 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_SHUTDOWN_TIMEOUT must be greater than 0")
	}
	if c.Server.ReadTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_READ_TIMEOUT must be greater than 0")
	}
	if c.Server.WriteTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_WRITE_TIMEOUT must be greater than 0")
	}
	if c.Server.IdleTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_IDLE_TIMEOUT must be greater than 0")
	}

	// Validate PostgreSQL config
	if c.Postgres.URL == "" {
		validationErrors = append(validationErrors, "POSTGRES_URL is required")
	}
	if c.Postgres.MaxConns <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONNS must be greater than 0")
	}
	if c.Postgres.MinConns <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MIN_CONNS must be greater than 0")
	}
	if c.Postgres.ConnMaxLifetime <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_LIFETIME must be greater than 0")
	}
	if c.Postgres.ConnMaxIdleTime <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_IDLE_TIME must be greater than 0")
	}

	// Validate outbound HTTP config
	if c.HTTPClient.Timeout <= 0 {
		validationErrors = append(validationErrors, "HTTP_CLIENT_TIMEOUT must be greater than 0")
	}

	// Validate rate provider config
	if c.Rates.CacheTTL <= 0 {
		validationErrors = append(validationErrors, "RATE_CACHE_TTL must be greater than 0")
	}
	if c.Rates.FallbackARSPerUSD.Sign() <= 0 {
		validationErrors = append(validationErrors, "RATE_FALLBACK_ARS_PER_USD must be greater than 0")
	}

	// Validate payment provider config
	if c.MercadoPago.BaseURL == "" {
		validationErrors = append(validationErrors, "MP_BASE_URL is required")
	}
	switch c.PayPal.Env {
	case "sandbox", "live":
	default:
		validationErrors = append(validationErrors, "PAYPAL_ENV must be 'sandbox' or 'live'")
	}

	if len(validationErrors) > 0 {
		return errors.New(strings.Join(validationErrors, ", "))
	}

	return nil
}
