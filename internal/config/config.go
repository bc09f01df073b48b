package config

import (
	"fmt"
	"os"

	"mydata-tools/internal/logger"
)

// DefaultAPIURL is the production myDATA RequestDocs endpoint.
const DefaultAPIURL = "https://mydatapi.aade.gr/myDATA/RequestDocs"

type Config struct {
	// myDATA API Configuration
	MyDataUserID string
	MyDataAPIKey string
	MyDataAPIURL string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		MyDataUserID:  getEnv("MYDATA_USER_ID", ""),
		MyDataAPIKey:  getEnv("MYDATA_API_KEY", ""),
		MyDataAPIURL:  getEnv("MYDATA_API_URL", DefaultAPIURL),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "console"),
		LogTimeFormat: getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:     getEnv("LOG_OUTPUT", "stderr"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.MyDataUserID == "" {
		return fmt.Errorf("MYDATA_USER_ID is required")
	}
	if c.MyDataAPIKey == "" {
		return fmt.Errorf("MYDATA_API_KEY is required")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
