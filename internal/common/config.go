package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Store  StoreConfig
	Gemini GeminiConfig
	Ingest IngestConfig
}

// StoreConfig holds object-store configuration
type StoreConfig struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// GeminiConfig holds model-related configuration
type GeminiConfig struct {
	APIKey         string
	ChecklistModel string
	DetailsModel   string
	Temperature    float32
	Timeout        time.Duration
}

// IngestConfig holds inbox-watcher configuration
type IngestConfig struct {
	InboxDir string
	Debounce time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Bucket:          getEnv("S3_BUCKET_NAME", ""),
			Region:          getEnv("S3_REGION", "us-east-1"),
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY", ""),
			SecretAccessKey: getEnv("AWS_SECRET_KEY", ""),
		},
		Gemini: GeminiConfig{
			APIKey:         getEnv("GEMINI_API_KEY", ""),
			ChecklistModel: getEnv("GEMINI_CHECKLIST_MODEL", "gemini-3-pro-preview"),
			DetailsModel:   getEnv("GEMINI_DETAILS_MODEL", "gemini-2.5-flash"),
			Temperature:    getEnvAsFloat32("GEMINI_TEMPERATURE", 0.0),
			Timeout:        getEnvAsDuration("GEMINI_TIMEOUT", 90*time.Second),
		},
		Ingest: IngestConfig{
			InboxDir: getEnv("INBOX_DIR", ""),
			Debounce: getEnvAsDuration("INBOX_DEBOUNCE", 500*time.Millisecond),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// ValidateStore checks the settings needed to reach the artifact store.
// Store-only commands (export, upload-only watching) never call the model
// and must not demand a model key.
func (c *Config) ValidateStore() error {
	if c.Store.Bucket == "" {
		return NewAppError("CONFIG_ERROR", "S3_BUCKET_NAME is required", ErrInvalidInput)
	}
	return nil
}

// Validate validates the full configuration for commands that run extraction.
func (c *Config) Validate() error {
	if err := c.ValidateStore(); err != nil {
		return err
	}
	if c.Gemini.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "GEMINI_API_KEY is required", ErrInvalidInput)
	}
	return nil
}
