package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"statadvisor/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Backend   BackendConfig
	Profiling ProfilingConfig
	Cache     CacheConfig
	LogLevel  string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds the optional recommendation log database.
// An empty URL selects the in-memory repository.
type DatabaseConfig struct {
	URL string
}

// Enabled reports whether a database is configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// BackendConfig holds the numeric assumption-test service settings
type BackendConfig struct {
	URL     string
	Timeout time.Duration
	Alpha   float64
}

// Enabled reports whether an assumption backend is configured
func (b BackendConfig) Enabled() bool {
	return b.URL != ""
}

// ProfilingConfig holds column profiler settings
type ProfilingConfig struct {
	SampleSize int
}

// CacheConfig holds assumption cache settings
type CacheConfig struct {
	AssumptionEntries int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:         getEnvOrDefault("PORT", "8080"),
			ReadTimeout:  getEnvDurationOrDefault("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getEnvDurationOrDefault("SERVER_WRITE_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			URL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		},
		Backend: BackendConfig{
			URL:     strings.TrimSpace(os.Getenv("NUMERIC_BACKEND_URL")),
			Timeout: getEnvDurationOrDefault("NUMERIC_BACKEND_TIMEOUT", 10*time.Second),
			Alpha:   getEnvFloatOrDefault("ASSUMPTION_ALPHA", 0.05),
		},
		Profiling: ProfilingConfig{
			SampleSize: getEnvIntOrDefault("PROFILE_SAMPLE_SIZE", 10000),
		},
		Cache: CacheConfig{
			AssumptionEntries: getEnvIntOrDefault("ASSUMPTION_CACHE_SIZE", 256),
		},
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Backend.Alpha <= 0 || config.Backend.Alpha >= 1 {
		return errors.ConfigInvalid("ASSUMPTION_ALPHA must be in (0, 1)")
	}
	if config.Backend.Timeout <= 0 {
		return errors.ConfigInvalid("NUMERIC_BACKEND_TIMEOUT must be positive")
	}
	if config.Profiling.SampleSize <= 0 {
		return errors.ConfigInvalid("PROFILE_SAMPLE_SIZE must be positive")
	}
	if config.Cache.AssumptionEntries <= 0 {
		return errors.ConfigInvalid("ASSUMPTION_CACHE_SIZE must be positive")
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
