package config

import (
	"os"
	"strconv"
	"time"

	"labstock/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database  DatabaseConfig
	Inference InferenceConfig
	Server    ServerConfig
	Lookup    LookupConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL     string
	SSLMode string
}

// InferenceConfig holds settings for the local inference engine
type InferenceConfig struct {
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port      string
	GinMode   string
	JWTSecret string
}

// LookupConfig holds the tunable knobs of the spec lookup cascade.
// Defaults come from the product's calibration, not hard invariants.
type LookupConfig struct {
	UsefulTextThreshold int
	QueryMinLength      int
	QueryMaxLength      int
	CacheTTL            time.Duration
	KnowledgeTimeout    time.Duration
	SearchMinInterval   time.Duration
	SweepInterval       time.Duration
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database:  loadDatabaseConfig(),
		Inference: loadInferenceConfig(),
		Server:    loadServerConfig(),
		Lookup:    loadLookupConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		URL:     os.Getenv("DATABASE_URL"),
		SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
	}
}

func loadInferenceConfig() InferenceConfig {
	return InferenceConfig{
		BaseURL:     getEnvOrDefault("INFERENCE_URL", "http://127.0.0.1:8580/v1"),
		Model:       getEnvOrDefault("INFERENCE_MODEL", "llama-3.2-1b-instruct"),
		MaxTokens:   getEnvIntOrDefault("INFERENCE_MAX_TOKENS", 512),
		Temperature: getEnvFloatOrDefault("INFERENCE_TEMPERATURE", 0.2),
		Timeout:     getEnvDurationOrDefault("INFERENCE_TIMEOUT", 120*time.Second),
	}
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:      getEnvOrDefault("PORT", "8080"),
		GinMode:   getEnvOrDefault("GIN_MODE", "debug"),
		JWTSecret: os.Getenv("JWT_SECRET"),
	}
}

func loadLookupConfig() LookupConfig {
	return LookupConfig{
		UsefulTextThreshold: getEnvIntOrDefault("LOOKUP_USEFUL_TEXT_THRESHOLD", 50),
		QueryMinLength:      getEnvIntOrDefault("LOOKUP_QUERY_MIN_LENGTH", 2),
		QueryMaxLength:      getEnvIntOrDefault("LOOKUP_QUERY_MAX_LENGTH", 200),
		CacheTTL:            getEnvDurationOrDefault("LOOKUP_CACHE_TTL", 30*24*time.Hour),
		KnowledgeTimeout:    getEnvDurationOrDefault("LOOKUP_KNOWLEDGE_TIMEOUT", 3*time.Second),
		SearchMinInterval:   getEnvDurationOrDefault("LOOKUP_SEARCH_MIN_INTERVAL", 2*time.Second),
		SweepInterval:       getEnvDurationOrDefault("LOOKUP_SWEEP_INTERVAL", 6*time.Hour),
	}
}

func validateConfig(config *Config) error {
	if config.Database.URL == "" {
		return errors.ConfigInvalid("DATABASE_URL is required")
	}
	if config.Server.JWTSecret == "" {
		return errors.ConfigInvalid("JWT_SECRET is required")
	}
	if config.Inference.BaseURL == "" {
		return errors.ConfigInvalid("INFERENCE_URL is required")
	}
	if config.Lookup.QueryMinLength < 1 || config.Lookup.QueryMaxLength < config.Lookup.QueryMinLength {
		return errors.ConfigInvalid("invalid lookup query length bounds")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
