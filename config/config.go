// Package config reads the storefront server configuration.
package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the storefront server settings.
type Config struct {
	Port             string        `env:"PORT"`
	RunAddress       string        `env:"RUN_ADDRESS"`
	MongoURI         string        `env:"MONGO_URI"`
	MongoDatabase    string        `env:"MONGO_DATABASE" envDefault:"ecommerce"`
	JWTSecret        string        `env:"JWT_SECRET"`
	TokenTTL         time.Duration `env:"TOKEN_TTL" envDefault:"720h"`
	StripeSecretKey  string        `env:"STRIPE_SECRET_KEY"`
	StripeAPIURL     string        `env:"STRIPE_API_URL"`
	Currency         string        `env:"PAYMENT_CURRENCY" envDefault:"zar"`
	MailProvider     string        `env:"MAIL_PROVIDER" envDefault:"log"`
	PostmarkToken    string        `env:"POSTMARK_API_TOKEN"`
	SendGridAPIKey   string        `env:"SENDGRID_API_KEY"`
	EmailSender      string        `env:"EMAIL_SENDER" envDefault:"no-reply@storefront.local"`
	UploadDir        string        `env:"UPLOAD_DIR" envDefault:"assets"`
	PublicBaseURL    string        `env:"PUBLIC_BASE_URL"`
	FreeDeliveryFrom float64       `env:"FREE_DELIVERY_FROM" envDefault:"6000"`
}

const defaultPort = "8000"

// Parse loads .env if present, then reads environment variables and flags.
// Environment values take precedence over flags.
func Parse() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envMongoURI := cfg.MongoURI

	flag.StringVar(&cfg.RunAddress, "a", "", "address and port for HTTP server")
	flag.StringVar(&cfg.MongoURI, "d", "mongodb://localhost:27017", "MongoDB connection URI")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envMongoURI != "" {
		cfg.MongoURI = envMongoURI
	}

	if cfg.RunAddress == "" {
		port := cfg.Port
		if port == "" {
			port = defaultPort
		}
		cfg.RunAddress = ":" + port
	}
	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = "http://localhost" + cfg.RunAddress
	}

	return cfg, nil
}
