package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppURL string // Required: externally reachable base URL of the portal frontend

	IdPURL        string // Required: base URL of the identity provider
	IdPServiceKey string // Required: admin API key for the identity provider
	IdPJWTSecret  string // Required: shared secret verifying provider access tokens

	MailerAPIKey string // Optional: Resend API key (invites fail without it)
	MailerFrom   string // Optional: From address for outbound mail

	DatabaseFile         string        // Optional: path to SQLite database file (default: ./portal.db)
	SafeLinkTTL          time.Duration // Optional: safe-link validity window (default: 24h)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		AppURL:               getEnvOrDefault("PORTAL_APP_URL", "http://localhost:3000"),
		IdPURL:               os.Getenv("PORTAL_IDP_URL"),
		IdPServiceKey:        os.Getenv("PORTAL_IDP_SERVICE_KEY"),
		IdPJWTSecret:         os.Getenv("PORTAL_IDP_JWT_SECRET"),
		MailerAPIKey:         os.Getenv("PORTAL_MAILER_API_KEY"),
		MailerFrom:           getEnvOrDefault("PORTAL_MAILER_FROM", "training@localhost"),
		DatabaseFile:         getEnvOrDefault("PORTAL_DATABASE_FILE", "portal.db"),
		SafeLinkTTL:          getEnvDurationOrDefault("PORTAL_SAFE_LINK_TTL", 24*time.Hour),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Integer values are read as minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
