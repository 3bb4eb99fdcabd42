// Package config loads server configuration from the service database when
// a persisted snapshot exists, otherwise from environment variables.
package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"petitionserver/database"
	"petitionserver/matching"
)

// Config server configuration
type Config struct {
	// Server
	Port string `json:"port"`

	// Databases
	VotersDatabasePath  string `json:"voters_database_path"`
	ServiceDatabasePath string `json:"service_database_path"`

	// Upload storage
	TempDir string `json:"temp_dir"`

	// Connection pooling
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`

	// Logging
	LogBufferSize int    `json:"log_buffer_size"`
	LogLevel      string `json:"log_level"`

	// Matching
	MatchThreshold   float64          `json:"match_threshold"`
	AmbiguityEpsilon float64          `json:"ambiguity_epsilon"`
	MatchWorkers     int              `json:"match_workers"`
	FieldWeights     matching.Weights `json:"field_weights,omitempty"`

	// OCR
	OCRLanguage string `json:"ocr_language"`

	// Rate limiting for uploads, requests per second
	UploadRateLimit float64 `json:"upload_rate_limit"`
	UploadRateBurst int     `json:"upload_rate_burst"`
}

// LoadConfig loads configuration from the service database (when serviceDB
// is passed and a snapshot was persisted) or from environment variables
func LoadConfig(serviceDB ...*database.ServiceDB) (*Config, error) {
	if len(serviceDB) > 0 && serviceDB[0] != nil {
		configJSON, err := serviceDB[0].GetAppConfig()
		if err == nil && configJSON != "" {
			var config Config
			if err := json.Unmarshal([]byte(configJSON), &config); err == nil {
				if err := config.Validate(); err == nil {
					log.Printf("Config loaded from service database")
					return &config, nil
				}
				log.Printf("Invalid config from DB, falling back to env: %v", err)
			} else {
				log.Printf("Failed to parse config from DB, falling back to env: %v", err)
			}
		}
	}

	config := &Config{
		Port: getEnv("SERVER_PORT", "9999"),

		VotersDatabasePath:  getEnv("VOTERS_DATABASE_PATH", "voters.db"),
		ServiceDatabasePath: getEnv("SERVICE_DATABASE_PATH", "service.db"),

		TempDir: getEnv("TEMP_DIR", "temp"),

		MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),

		LogBufferSize: getEnvInt("LOG_BUFFER_SIZE", 100),
		LogLevel:      getEnv("LOG_LEVEL", "INFO"),

		MatchThreshold:   getEnvFloat("MATCH_THRESHOLD", 0.80),
		AmbiguityEpsilon: getEnvFloat("AMBIGUITY_EPSILON", 0.05),
		MatchWorkers:     getEnvInt("MATCH_WORKERS", 0),

		OCRLanguage: getEnv("OCR_LANGUAGE", "eng"),

		UploadRateLimit: getEnvFloat("UPLOAD_RATE_LIMIT", 2),
		UploadRateBurst: getEnvInt("UPLOAD_RATE_BURST", 5),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// Validate checks configuration invariants
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port must not be empty")
	}
	if c.VotersDatabasePath == "" || c.ServiceDatabasePath == "" {
		return fmt.Errorf("database paths must not be empty")
	}
	if c.MatchThreshold < 0 || c.MatchThreshold > 1 {
		return fmt.Errorf("match threshold %f out of range [0, 1]", c.MatchThreshold)
	}
	if c.AmbiguityEpsilon < 0 || c.AmbiguityEpsilon > 1 {
		return fmt.Errorf("ambiguity epsilon %f out of range [0, 1]", c.AmbiguityEpsilon)
	}
	if c.LogBufferSize <= 0 {
		return fmt.Errorf("log buffer size must be positive")
	}
	for field, weight := range c.FieldWeights {
		if weight < 0 {
			return fmt.Errorf("field weight %s must not be negative", field)
		}
	}
	return nil
}

// Save persists the configuration snapshot to the service database with a
// history entry
func (c *Config) Save(serviceDB *database.ServiceDB, changedBy, reason string) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return serviceDB.SaveAppConfig(string(data), changedBy, reason)
}

// MatchingConfig derives the pipeline configuration from the server
// configuration
func (c *Config) MatchingConfig() matching.Config {
	// Copy the weights so a pipeline run never shares the map with the
	// live configuration
	weights := make(matching.Weights, len(c.FieldWeights))
	for field, w := range c.FieldWeights {
		weights[field] = w
	}
	return matching.Config{
		Threshold: c.MatchThreshold,
		Epsilon:   c.AmbiguityEpsilon,
		Weights:   weights,
		Workers:   c.MatchWorkers,
	}
}

// getEnv reads an environment variable with a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an environment variable as int with a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat reads an environment variable as float64 with a default
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvDuration reads an environment variable as Duration with a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
