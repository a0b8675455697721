// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config is the env surface shared by the ward administration services.
// Not every service consumes every field.
type Config struct {
	HTTPAddr        string
	DatabaseDSN     string
	AuthSecret      string
	Issuer          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// Remote gate settings for services that do not own the user table.
	AuthServiceURL string
	AuthTimeout    time.Duration

	// Optional Redis address for the token revocation list.
	RedisAddr string

	// Shared key accepted from sibling services for internal ingestion
	// endpoints.
	ServiceKey string

	RateBurst  int
	RatePerSec int
}

// Load reads configuration with sensible defaults for local development.
// The auth secret has no default; services that need it fail fast at boot.
func Load() Config {
	return Config{
		HTTPAddr:        getenv("WARDOPS_HTTP_ADDR", ":8080"),
		DatabaseDSN:     getenv("WARDOPS_PG_DSN", ""),
		AuthSecret:      getenv("WARDOPS_AUTH_SECRET", ""),
		Issuer:          getenv("WARDOPS_ISSUER", "wardops-auth"),
		AccessTokenTTL:  getenvDuration("WARDOPS_ACCESS_TTL", 30*time.Minute),
		RefreshTokenTTL: getenvDuration("WARDOPS_REFRESH_TTL", 7*24*time.Hour),
		AuthServiceURL:  getenv("WARDOPS_AUTH_SERVICE_URL", "http://localhost:8080/api/v1/auth"),
		AuthTimeout:     getenvDuration("WARDOPS_AUTH_TIMEOUT", 5*time.Second),
		RedisAddr:       getenv("WARDOPS_REDIS_ADDR", ""),
		ServiceKey:      getenv("WARDOPS_SERVICE_KEY", ""),
		RateBurst:       getenvInt("WARDOPS_RATE_BURST", 20),
		RatePerSec:      getenvInt("WARDOPS_RATE_PER_SEC", 10),
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}
