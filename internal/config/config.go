package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Server
	ServerPort string

	// Paths
	DatabaseFile   string // $DATA_DIR/toonhive.db
	SearchIndexDir string // $DATA_DIR/search.bleve
	BlobDir        string // $DATA_DIR/blobs

	// Cache
	CacheTTL time.Duration // backstop expiry; invalidation is explicit

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = viper.ReadInConfig()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("CACHE_TTL_MINUTES", 10)

	dataDir := viper.GetString("DATA_DIR")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, ".local", "share", "toonhive")
	} else {
		absPath, err := filepath.Abs(dataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for DATA_DIR: %w", err)
		}
		dataDir = absPath
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	config := &Config{
		ServerPort:     viper.GetString("SERVER_PORT"),
		DatabaseFile:   filepath.Join(dataDir, "toonhive.db"),
		SearchIndexDir: filepath.Join(dataDir, "search.bleve"),
		BlobDir:        filepath.Join(dataDir, "blobs"),
		CacheTTL:       time.Duration(viper.GetInt("CACHE_TTL_MINUTES")) * time.Minute,
		LogLevel:       viper.GetString("LOG_LEVEL"),
	}

	return config, nil
}
