package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	NodeEnv     string
	Port        string
	JWTSecret   string
	FrontendDir string
	Database    DatabaseConfig
	Storage     StorageConfig
	HIS         HISConfig
	Gemini      GeminiConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
	Alter    bool
}

// StorageConfig selects the document blob backend
type StorageConfig struct {
	Backend  string // local, s3
	LocalDir string
	S3Bucket string
}

// HISConfig holds the hospital information system XML-RPC endpoint used
// to prefill patient demographics. Optional.
type HISConfig struct {
	URL      string
	Database string
	Username string
	Password string
}

// GeminiConfig holds the optional AI summary settings
type GeminiConfig struct {
	APIKey string
	Model  string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return &Config{
		NodeEnv:     getEnv("NODE_ENV", "development"),
		Port:        getEnv("PORT", "3310"),
		JWTSecret:   jwtSecret,
		FrontendDir: getEnv("FRONTEND_DIR", "./public"),
		Database: DatabaseConfig{
			Host:     getEnv("PG_HOST", "localhost"),
			Port:     getEnv("PG_PORT", "5432"),
			Username: getEnv("PG_USERNAME", "postgres"),
			Password: os.Getenv("PG_PASSWORD"),
			Database: getEnv("PG_DATABASE", "caseboard"),
			Alter:    getEnv("DB_ALTER", "false") == "true",
		},
		Storage: StorageConfig{
			Backend:  getEnv("STORAGE_BACKEND", "local"),
			LocalDir: getEnv("STORAGE_DIR", "./case_files"),
			S3Bucket: os.Getenv("STORAGE_S3_BUCKET"),
		},
		HIS: HISConfig{
			URL:      os.Getenv("HIS_URL"),
			Database: os.Getenv("HIS_DATABASE"),
			Username: os.Getenv("HIS_USERNAME"),
			Password: os.Getenv("HIS_PASSWORD"),
		},
		Gemini: GeminiConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
			Model:  getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		},
	}, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
