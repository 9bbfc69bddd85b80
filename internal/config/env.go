package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
)

// Env holds all runtime configuration. Values come from the process
// environment; defaults are suitable for local development only.
type Env struct {
	AppAddr string `env:"APP_ADDR" envDefault:":8080"`
	GinMode string `env:"GIN_MODE"`

	DBUser string `env:"DB_USER" envDefault:"root"`
	DBPass string `env:"DB_PASS"`
	DBHost string `env:"DB_HOST" envDefault:"127.0.0.1:3306"`
	DBName string `env:"DB_NAME" envDefault:"thrive"`

	RedisAddr string `env:"REDIS_ADDR" envDefault:"127.0.0.1:6379"`
	RedisPass string `env:"REDIS_PASS"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	JWTSecret       string        `env:"JWT_SECRET" envDefault:"dev-key-change-in-production"`
	AccessTokenTTL  time.Duration `env:"JWT_ACCESS_TTL" envDefault:"15m"`
	RefreshTokenTTL time.Duration `env:"JWT_REFRESH_TTL" envDefault:"720h"`

	StripeSecretKey      string `env:"STRIPE_SECRET_KEY"`
	StripePublishableKey string `env:"STRIPE_PUBLISHABLE_KEY"`
	StripeWebhookSecret  string `env:"STRIPE_WEBHOOK_SECRET"`

	AmadeusAPIKey    string `env:"AMADEUS_API_KEY"`
	AmadeusAPISecret string `env:"AMADEUS_SECRET_KEY"`
	AmadeusEnv       string `env:"AMADEUS_ENV" envDefault:"test"`

	FrontendURL        string   `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
	CORSOrigins        []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	RateLimitPerMinute int      `env:"RATE_LIMIT_PER_MINUTE" envDefault:"120"`
}

// LoadEnv parses the environment into Env. Parse errors are fatal since the
// server cannot run with a half-applied configuration.
func LoadEnv() Env {
	var e Env
	if err := env.Parse(&e); err != nil {
		log.Fatalf("failed to parse environment: %v", err)
	}
	return e
}
