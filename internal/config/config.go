package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/kanavphull/stores-rest-api/pkg/config"
)

// Config holds all configuration for the stores REST API.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"stores"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"stores_secret"`
	PostgresDB   string `env:"POSTGRES_DB_NAME" envDefault:"stores"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Token blocklist. The redis backend keeps revocations across restarts;
	// memory is for single-process development runs.
	BlocklistBackend string `env:"BLOCKLIST_BACKEND" envDefault:"memory"`
	RedisHost        string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort        int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword    string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB          int    `env:"REDIS_DB" envDefault:"0"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// JWT
	JWTSecret        string        `env:"JWT_SECRET" envDefault:"change-this-to-a-secure-secret"`
	JWTIssuer        string        `env:"JWT_ISSUER" envDefault:"stores-rest-api"`
	JWTAccessExpiry  time.Duration `env:"JWT_ACCESS_TOKEN_EXPIRY" envDefault:"15m"`
	JWTRefreshExpiry time.Duration `env:"JWT_REFRESH_TOKEN_EXPIRY" envDefault:"168h"`

	// Mailgun. When the API key is empty, welcome emails are logged instead
	// of sent.
	MailgunBaseURL string `env:"MAILGUN_BASE_URL" envDefault:"https://api.mailgun.net/v3"`
	MailgunDomain  string `env:"MAILGUN_DOMAIN" envDefault:""`
	MailgunAPIKey  string `env:"MAILGUN_API_KEY" envDefault:""`
	MailFrom       string `env:"MAIL_FROM" envDefault:"Stores REST API <no-reply@stores-rest-api.local>"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load stores config: %w", err)
	}
	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP port: %d", cfg.HTTPPort)
	}

	if cfg.BlocklistBackend != "memory" && cfg.BlocklistBackend != "redis" {
		return nil, fmt.Errorf("invalid BLOCKLIST_BACKEND %q, must be memory or redis", cfg.BlocklistBackend)
	}

	// In non-development environments, require an explicitly set, strong JWT secret.
	if cfg.Environment != "development" {
		if cfg.JWTSecret == "change-this-to-a-secure-secret" {
			return nil, fmt.Errorf("JWT_SECRET must be explicitly set via environment variable in %q mode", cfg.Environment)
		}
		if len(cfg.JWTSecret) < 32 {
			return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters long, got %d", len(cfg.JWTSecret))
		}
	}

	return cfg, nil
}

// PostgresDSN returns the PostgreSQL connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.PostgresUser, c.PostgresPass, c.PostgresHost, c.PostgresPort, c.PostgresDB, c.PostgresSSL,
	)
}
