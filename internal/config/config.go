// internal/config/config.go
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// ServerConfig holds all server-related settings
type ServerConfig struct {
	Port           int
	Host           string
	MetricsEnabled bool
}

// DatabaseConfig holds MongoDB connection settings
type DatabaseConfig struct {
	URI  string
	Name string
}

// ModerationConfig controls the content moderation check.
type ModerationConfig struct {
	// Provider selects the checker implementation: "keyword" or "remote".
	Provider string
	// RemoteURL is the moderation service endpoint used by the remote provider.
	RemoteURL string
	// FailOpen approves content when the checker itself fails. This mirrors
	// the availability-over-safety policy of the original service and can be
	// turned off to reject on moderation errors instead.
	FailOpen bool
}

// AuthConfig holds session token settings.
type AuthConfig struct {
	JWTSecret string
	// Required enforces a valid session token on all write endpoints.
	Required bool
}

// Config holds the complete application configuration
type Config struct {
	Server            *ServerConfig
	Database          *DatabaseConfig
	Moderation        *ModerationConfig
	Auth              *AuthConfig
	NATSURL           string
	VolunteerSeedFile string
	AllowedOrigins    []string
	Debug             bool
}

// DefaultConfig provides default server settings
func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		Port:           8080,
		Host:           "0.0.0.0",
		MetricsEnabled: true,
	}
}

// DefaultDatabaseConfig provides default database settings
func DefaultDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		URI:  "mongodb://localhost:27017",
		Name: "relawan_hub",
	}
}

// DefaultModerationConfig provides the deterministic keyword checker with
// the original fail-open policy.
func DefaultModerationConfig() *ModerationConfig {
	return &ModerationConfig{
		Provider: "keyword",
		FailOpen: true,
	}
}

// LoadConfig loads configuration from environment variables and applies defaults
func LoadConfig() (*Config, error) {
	// Silent failure if no .env exists, which is fine
	_ = godotenv.Load()

	serverConfig := DefaultConfig()

	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			serverConfig.Port = port
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		serverConfig.Host = host
	}

	if metricsEnabled := os.Getenv("METRICS_ENABLED"); metricsEnabled != "" {
		serverConfig.MetricsEnabled = metricsEnabled == "true"
	}

	dbConfig := DefaultDatabaseConfig()
	if uri := os.Getenv("MONGODB_URI"); uri != "" {
		dbConfig.URI = uri
	}
	if name := os.Getenv("MONGODB_DATABASE"); name != "" {
		dbConfig.Name = name
	}

	moderationConfig := DefaultModerationConfig()
	if provider := os.Getenv("MODERATION_PROVIDER"); provider != "" {
		moderationConfig.Provider = provider
	}
	moderationConfig.RemoteURL = os.Getenv("MODERATION_REMOTE_URL")
	if failOpen := os.Getenv("MODERATION_FAIL_OPEN"); failOpen != "" {
		moderationConfig.FailOpen = failOpen == "true"
	}

	authConfig := &AuthConfig{
		JWTSecret: getEnvOrDefault("JWT_SECRET", "relawan-hub-dev-secret"),
		Required:  os.Getenv("AUTH_REQUIRED") == "true",
	}

	config := &Config{
		Server:            serverConfig,
		Database:          dbConfig,
		Moderation:        moderationConfig,
		Auth:              authConfig,
		NATSURL:           os.Getenv("NATS_URL"),
		VolunteerSeedFile: os.Getenv("VOLUNTEER_SEED_FILE"),
		AllowedOrigins:    []string{"*"},
		Debug:             false,
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		config.AllowedOrigins = strings.Split(origins, ",")
	}

	if debug := os.Getenv("DEBUG"); debug == "true" {
		config.Debug = true
	}

	return config, nil
}

// Helper function to get environment variable with default fallback
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
