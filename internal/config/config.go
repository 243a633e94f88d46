package config

import (
	"os"
	"strconv"
	"time"

	"chatbi/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server ServerConfig
	Store  StoreConfig
	Query  QueryConfig
	AI     AIConfig
	Ops    OpsConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port           string
	GinMode        string
	RequestTimeout time.Duration
}

// StoreConfig holds the configuration-store (MySQL) connection settings
type StoreConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// QueryConfig bounds the pools opened against user data sources
type QueryConfig struct {
	MaxOpenConns   int
	MaxIdleConns   int
	AcquireTimeout time.Duration
	MaxRows        int
}

// AIConfig holds AI model settings
type AIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// OpsConfig holds the operational endpoint settings
type OpsConfig struct {
	Port         string
	PprofEnabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:           getEnvOrDefault("PORT", "8080"),
			GinMode:        getEnvOrDefault("GIN_MODE", "release"),
			RequestTimeout: getEnvDurationOrDefault("REQUEST_TIMEOUT", 60*time.Second),
		},
		Store: StoreConfig{
			DSN:             os.Getenv("STORE_DSN"),
			MaxOpenConns:    getEnvIntOrDefault("STORE_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvIntOrDefault("STORE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDurationOrDefault("STORE_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Query: QueryConfig{
			MaxOpenConns:   getEnvIntOrDefault("QUERY_MAX_OPEN_CONNS", 5),
			MaxIdleConns:   getEnvIntOrDefault("QUERY_MAX_IDLE_CONNS", 2),
			AcquireTimeout: getEnvDurationOrDefault("QUERY_ACQUIRE_TIMEOUT", 5*time.Second),
			MaxRows:        getEnvIntOrDefault("QUERY_MAX_ROWS", 10000),
		},
		AI: AIConfig{
			APIKey:      os.Getenv("OPENAI_API_KEY"),
			BaseURL:     getEnvOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:       getEnvOrDefault("LLM_MODEL", "gpt-4o-mini"),
			MaxTokens:   getEnvIntOrDefault("MAX_TOKENS", 4000),
			Temperature: getEnvFloatOrDefault("TEMPERATURE", 0.2),
			Timeout:     getEnvDurationOrDefault("LLM_TIMEOUT", 60*time.Second),
		},
		Ops: OpsConfig{
			Port:         getEnvOrDefault("OPS_PORT", "6060"),
			PprofEnabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Store.DSN == "" {
		return errors.ConfigInvalid("STORE_DSN is required")
	}
	if config.AI.APIKey == "" {
		return errors.ConfigInvalid("OPENAI_API_KEY is required")
	}
	if config.Query.MaxRows <= 0 {
		return errors.ConfigInvalid("QUERY_MAX_ROWS must be positive")
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

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
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
