package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DatabaseType   string
	DatabaseURL    string
	DatabasePath   string
	MigrationsPath string

	// StreakMinimum is the cross-plan daily chapter threshold that keeps a
	// user's streak alive
	StreakMinimum int

	// Timezone defines the user-local day boundary for progress records
	Timezone string

	// JWTSecret verifies access tokens issued by the auth backend
	JWTSecret string

	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file is loaded first if present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DatabaseType:   getEnv("DATABASE_TYPE", "sqlite"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		DatabasePath:   getEnv("DB_PATH", "./kindled.db"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),
		StreakMinimum:  getEnvInt("STREAK_MINIMUM", 1),
		Timezone:       getEnv("TIMEZONE", "UTC"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
	}
}

// Location resolves the configured timezone, falling back to UTC when the
// name is unknown
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
