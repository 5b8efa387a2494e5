package config

import (
	"log/slog"
	"os"
)

type Config struct {
	// MongoDB configuration
	MongoURI     string
	DatabaseName string

	// Identity provider configuration
	SessionSecret string
	TokenIssuer   string

	// Notification configuration
	ResendAPIKey    string
	NotifyFromEmail string

	// Server configuration
	Port        string
	Environment string
}

func LoadConfig() *Config {
	cfg := &Config{
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DatabaseName:    getEnv("MONGO_DB_NAME", "careerhub"),
		SessionSecret:   getEnv("SESSION_SECRET", ""),
		TokenIssuer:     getEnv("TOKEN_ISSUER", "careerhub"),
		ResendAPIKey:    getEnv("RESEND_API_KEY", ""),
		NotifyFromEmail: getEnv("NOTIFY_FROM_EMAIL", "noreply@careerhub.local"),
		Port:            getEnv("PORT", "8080"),
		Environment:     getEnv("ENVIRONMENT", "development"),
	}

	// Validate required configuration
	if cfg.SessionSecret == "" {
		slog.Error("SESSION_SECRET not set")
	}

	return cfg
}

// IsProduction reports whether the server runs with production settings
// (TLS-only session cookies)
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
