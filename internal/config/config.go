// Package config loads the server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv string `env:"APP_ENV" default:"development"`
	Port   string `env:"PORT" default:"5000"`

	// DatabaseURL wins over the discrete DB_* settings when set.
	DatabaseURL string `env:"DATABASE_URL"`
	DBHost      string `env:"DB_HOST" default:"localhost"`
	DBPort      string `env:"DB_PORT" default:"5432"`
	DBUser      string `env:"DB_USER" default:"postgres"`
	DBPassword  string `env:"DB_PASSWORD"`
	DBName      string `env:"DB_NAME" default:"askseniors"`
	DBSSLMode   string `env:"DB_SSLMODE" default:"disable"`
	// DBDriver names the database/sql driver: "pgx" or "postgres" (lib/pq).
	DBDriver string `env:"DB_DRIVER" default:"pgx"`

	JWTSecret       string        `env:"JWT_SECRET"`
	TokenTTL        time.Duration `env:"TOKEN_TTL" default:"6h"`
	VerificationTTL time.Duration `env:"VERIFICATION_TTL" default:"1h"`
	SecureCookies   bool          `env:"SECURE_COOKIES" default:"true"`

	// PublicBaseURL prefixes links in outgoing mail; derived from the
	// request when empty.
	PublicBaseURL string `env:"PUBLIC_BASE_URL"`
	// AllowedEmailDomains restricts registration to these domains when set.
	AllowedEmailDomains []string `env:"ALLOWED_EMAIL_DOMAINS"`
	CORSOrigins         []string `env:"CORS_ORIGINS" default:"*"`

	SMTPHost      string `env:"SMTP_HOST"`
	SMTPPort      string `env:"SMTP_PORT" default:"587"`
	EmailUsername string `env:"EMAIL_USERNAME"`
	EmailPassword string `env:"EMAIL_PASSWORD"`
	MailFrom      string `env:"MAIL_FROM" default:"Admin | AskSeniors"`

	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, &env.Options{SliceSep: ","}); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	for i, d := range cfg.AllowedEmailDomains {
		cfg.AllowedEmailDomains[i] = strings.ToLower(strings.TrimSpace(d))
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if !slices.Contains([]string{"pgx", "postgres"}, cfg.DBDriver) {
		return fmt.Errorf("DB_DRIVER must be pgx or postgres, got %q", cfg.DBDriver)
	}
	if cfg.TokenTTL <= 0 || cfg.VerificationTTL <= 0 {
		return errors.New("TOKEN_TTL and VERIFICATION_TTL must be positive")
	}
	return nil
}

// DSN returns the connection string for the configured database.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)
}

// MailEnabled reports whether SMTP delivery is configured.
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.EmailUsername != "" && c.EmailPassword != ""
}

// EmailAllowed reports whether email may register an account.
func (c *Config) EmailAllowed(email string) bool {
	if len(c.AllowedEmailDomains) == 0 {
		return true
	}
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	return slices.Contains(c.AllowedEmailDomains, strings.ToLower(email[at+1:]))
}
