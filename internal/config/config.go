package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the application configuration
type Config struct {
	// DataDir is the directory holding books.json, users.json and
	// history.json
	DataDir string

	// UseMemoryStore keeps all data in memory instead of files (testing and
	// throwaway runs)
	UseMemoryStore bool

	// Development switches the logger to human-readable output
	Development bool
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	config := &Config{}

	config.DataDir = os.Getenv("CATALOG_DATA_DIR")
	if config.DataDir == "" {
		config.DataDir = "data"
	}

	// Reject a data dir that exists but is not a directory; a missing one is
	// created by the store on first use.
	if info, err := os.Stat(config.DataDir); err == nil && !info.IsDir() {
		return nil, fmt.Errorf("CATALOG_DATA_DIR %q is not a directory", filepath.Clean(config.DataDir))
	}

	config.UseMemoryStore = os.Getenv("CATALOG_USE_MEMORY") == "true"
	config.Development = os.Getenv("APP_ENV") == "development"

	return config, nil
}
