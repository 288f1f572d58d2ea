package config

import (
	"os"
)

// Config holds all configuration for the API service
type Config struct {
	// Database
	DatabaseURL string

	// Optional read-only SQLite mirror of the places table. When set, the
	// place endpoints are served from the mirror instead of Postgres.
	PlacesSQLitePath string

	// External services
	OSRMBaseURL      string
	NominatimBaseURL string

	// HTTP
	Port           string
	AllowedOrigins []string
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PlacesSQLitePath: os.Getenv("PLACES_SQLITE_PATH"),

		OSRMBaseURL:      getEnv("OSRM_BASE_URL", "https://router.project-osrm.org"),
		NominatimBaseURL: getEnv("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"),

		Port:           getEnv("PORT", "8081"),
		AllowedOrigins: []string{getEnv("ALLOWED_ORIGIN", "http://localhost:5173")},
	}
}

// getEnv reads an environment variable with a fallback default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
