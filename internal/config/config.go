package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort      string
	DatabaseType    string
	DatabasePath    string
	DatabaseURL     string
	MigrationsPath  string
	StaticFilesPath string
	VocabSource     string
	SessionSecret   string
	SessionDuration time.Duration
}

// Load reads configuration from the environment with sensible defaults.
// A .env file in the working directory is applied first if present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:      getEnv("PORT", "8080"),
		DatabaseType:    getEnv("DATABASE_TYPE", "sqlite"),
		DatabasePath:    getEnv("DB_PATH", "./vocabquest.db"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "./migrations"),
		StaticFilesPath: getEnv("STATIC_PATH", "./static"),
		VocabSource:     getEnv("VOCAB_SOURCE", "./vocab.json"),
		SessionSecret:   getEnv("SESSION_SECRET", "vocabquest-dev-secret"),
		SessionDuration: getDuration("SESSION_DURATION", 24*time.Hour),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration reads a duration environment variable or returns a default value
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
