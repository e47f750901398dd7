// Package config reads the pft settings from the environment and an optional
// .env file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Backends of the persistent store.
const (
	BackendDir    = "dir"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config holds all configuration for the application.
type Config struct {
	Store StoreConfig
	// LogLevel is a zerolog level name.
	LogLevel string
	// Location is the IANA zone datetimes are read in.
	Location string
	Assist   AssistConfig
}

// StoreConfig selects where the ledger is persisted.
type StoreConfig struct {
	Backend    string
	DataDir    string
	SQLitePath string
}

// AssistConfig configures the natural language assistant.
type AssistConfig struct {
	Model  string
	APIKey string
}

// Load reads configuration from environment variables and the .env files,
// if any. Variables already set in the environment win over the files.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		// Try to load .env file (ignore error if it doesn't exist)
		_ = godotenv.Load()
	} else if err := godotenv.Load(files...); err != nil {
		return nil, fmt.Errorf("could not load %v: %w", files, err)
	}

	dataDir := getEnv("PFT_DATA_DIR", ".pft")
	config := &Config{
		Store: StoreConfig{
			Backend:    strings.ToLower(getEnv("PFT_BACKEND", BackendDir)),
			DataDir:    dataDir,
			SQLitePath: getEnv("PFT_SQLITE_PATH", filepath.Join(dataDir, "pft.db")),
		},
		LogLevel: getEnv("PFT_LOG_LEVEL", "warn"),
		Location: getEnv("PFT_TZ", "Local"),
		Assist: AssistConfig{
			Model:  getEnv("PFT_MODEL", "gemini-2.5-flash"),
			APIKey: getEnv("GEMINI_API_KEY", os.Getenv("GOOGLE_API_KEY")),
		},
	}
	if err := config.Store.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the backend name.
func (c StoreConfig) Validate() error {
	switch c.Backend {
	case BackendDir, BackendSQLite, BackendMemory:
		return nil
	default:
		return fmt.Errorf("unknown backend %q, want %s, %s or %s", c.Backend, BackendDir, BackendSQLite, BackendMemory)
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
