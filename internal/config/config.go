package config

import (
	"os"
	"time"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Sessions
	SessionTTL      time.Duration
	MagicLinkSecret string
	MagicLinkTTL    time.Duration

	// Identity provider (OAuth session-data exchange)
	IdentityURL     string
	IdentityTimeout time.Duration

	// Payments (Stripe Checkout)
	StripeAPIURL        string
	StripeSecretKey     string
	StripeWebhookSecret string
	PaymentTimeout      time.Duration

	// AI tips
	AIAPIKey  string
	AIAPIURL  string
	AIModel   string
	AITimeout time.Duration

	// Email
	MailerAPIURL  string
	MailerAPIKey  string
	MailFrom      string
	MailerTimeout time.Duration

	// Admin
	AdminEmails string
	AdminToken  string

	// Server
	Port        string
	CORSOrigins string
	FrontendURL string
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "umirime"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		SessionTTL:      parseDuration(getEnv("SESSION_TTL", "168h"), 168*time.Hour),
		MagicLinkSecret: getEnv("MAGIC_LINK_SECRET", ""),
		MagicLinkTTL:    parseDuration(getEnv("MAGIC_LINK_TTL", "15m"), 15*time.Minute),

		IdentityURL:     getEnv("IDENTITY_URL", "https://demobackend.emergentagent.com/auth/v1/env/oauth/session-data"),
		IdentityTimeout: parseDuration(getEnv("IDENTITY_TIMEOUT", "10s"), 10*time.Second),

		StripeAPIURL:        getEnv("STRIPE_API_URL", "https://api.stripe.com"),
		StripeSecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		PaymentTimeout:      parseDuration(getEnv("PAYMENT_TIMEOUT", "15s"), 15*time.Second),

		AIAPIKey:  getEnv("AI_API_KEY", ""),
		AIAPIURL:  getEnv("AI_API_URL", "https://api.openai.com/v1/chat/completions"),
		AIModel:   getEnv("AI_MODEL", "gpt-4o-mini"),
		AITimeout: parseDuration(getEnv("AI_TIMEOUT", "30s"), 30*time.Second),

		MailerAPIURL:  getEnv("MAILER_API_URL", "https://api.resend.com/emails"),
		MailerAPIKey:  getEnv("MAILER_API_KEY", ""),
		MailFrom:      getEnv("MAIL_FROM", "Umiri.me <no-reply@umiri.me>"),
		MailerTimeout: parseDuration(getEnv("MAILER_TIMEOUT", "10s"), 10*time.Second),

		AdminEmails: getEnv("ADMIN_EMAILS", ""),
		AdminToken:  getEnv("ADMIN_TOKEN", ""),

		Port:        getEnv("PORT", "8080"),
		// Credentialed CORS cannot use a wildcard origin.
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
