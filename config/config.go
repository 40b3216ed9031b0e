// Package config loads the process configuration from the environment once
// at startup.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	RedisAddr   string
	CORSOrigins []string

	TokenSecret     string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	RecoveryTTL     time.Duration
	ConfirmationTTL time.Duration

	ConfirmationCodeTTL  time.Duration
	ConfirmationLinkBase string
	RecoveryLinkBase     string

	StripeSecretKey     string
	StripeWebhookSecret string
	PaymentSuccessURL   string
	Currency            string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
}

// Load reads .env if present and resolves every setting. Secrets have no
// defaults; missing ones fail startup.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        envOr("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisAddr:   envOr("REDIS_ADDR", "localhost:6379"),
		CORSOrigins: splitList(envOr("CORS_ORIGINS", "*")),

		TokenSecret:     os.Getenv("TOKEN_SECRET_KEY"),
		AccessTokenTTL:  envMinutes("ACCESS_TOKEN_EXPIRATION_MINUTES", 60),
		RefreshTokenTTL: envMinutes("REFRESH_TOKEN_EXPIRATION_MINUTES", 15*24*60),
		RecoveryTTL:     envMinutes("RECOVERY_TOKEN_EXPIRATION_MINUTES", 15),
		ConfirmationTTL: envMinutes("CONFIRMATION_TOKEN_EXPIRATION_MINUTES", 24*60),

		ConfirmationCodeTTL:  envMinutes("CONFIRMATION_CODE_EXPIRATION_MINUTES", 15),
		ConfirmationLinkBase: os.Getenv("EMAIL_CONFIRMATION_LINK"),
		RecoveryLinkBase:     os.Getenv("PASSWORD_RECOVERY_LINK"),

		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		PaymentSuccessURL:   envOr("PAYMENT_SUCCESS_REDIRECT_URL", "http://localhost:8080/payment/success"),
		Currency:            envOr("PAYMENT_CURRENCY", "uah"),

		SMTPHost:     os.Getenv("SMTP_SERVER"),
		SMTPPort:     envInt("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     os.Getenv("SMTP_MAIL"),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = dsnFromParts()
	}
	if cfg.TokenSecret == "" {
		return nil, fmt.Errorf("TOKEN_SECRET_KEY is not set")
	}
	if cfg.StripeSecretKey == "" || cfg.StripeWebhookSecret == "" {
		return nil, fmt.Errorf("stripe configuration missing")
	}
	return cfg, nil
}

func dsnFromParts() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func envMinutes(key string, fallback int) time.Duration {
	return time.Duration(envInt(key, fallback)) * time.Minute
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
