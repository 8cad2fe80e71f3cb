package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	Port string
	Env  string

	// BaseURL is where Stripe sends the shopper back after checkout.
	BaseURL string

	StripeSecretKey     string
	StripeWebhookSecret string

	CatalogProjectID  string
	CatalogDataset    string
	CatalogAPIVersion string
	// CatalogWriteToken gates order/customer writes only. Reads work without
	// it, so it is validated per-operation instead of at startup.
	CatalogWriteToken string

	// ClerkJWTPublicKey is the PEM-encoded RS256 verification key for
	// session tokens. When empty, every gated route rejects with 401.
	ClerkJWTPublicKey string

	RedisURL string
	CartTTL  time.Duration
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:                getEnv("PORT", "8080"),
		Env:                 getEnv("APP_ENV", "development"),
		BaseURL:             resolveBaseURL(),
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		CatalogProjectID:    os.Getenv("SANITY_PROJECT_ID"),
		CatalogDataset:      getEnv("SANITY_DATASET", "production"),
		CatalogAPIVersion:   getEnv("SANITY_API_VERSION", "2024-01-01"),
		CatalogWriteToken:   os.Getenv("SANITY_API_WRITE_TOKEN"),
		ClerkJWTPublicKey:   os.Getenv("CLERK_JWT_PUBLIC_KEY"),
		RedisURL:            getEnv("REDIS_URL", "redis://localhost:6379"),
		CartTTL:             time.Hour * 24 * 7,
	}

	if cfg.StripeSecretKey == "" {
		return nil, fmt.Errorf("STRIPE_SECRET_KEY is not defined")
	}
	if cfg.StripeWebhookSecret == "" {
		return nil, fmt.Errorf("STRIPE_WEBHOOK_SECRET is not defined")
	}
	if cfg.CatalogProjectID == "" {
		return nil, fmt.Errorf("SANITY_PROJECT_ID is not defined")
	}

	return cfg, nil
}

// resolveBaseURL picks the public base URL in priority order:
// explicit BASE_URL, then the deployment platform's URL, then localhost.
func resolveBaseURL() string {
	if url := os.Getenv("BASE_URL"); url != "" {
		return url
	}
	if vercel := os.Getenv("VERCEL_URL"); vercel != "" {
		return "https://" + vercel
	}
	return "http://localhost:3000"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
