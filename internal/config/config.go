package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gradebook/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Data      DataConfig
	UI        UIConfig
	Profiling ProfilingConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DataConfig holds the backing file settings
type DataConfig struct {
	File             string
	SheetName        string
	HistogramBuckets int
}

// UIConfig holds page text settings
type UIConfig struct {
	Title string
	// FooterMarkdown is rendered below the report; empty hides the footer
	FooterMarkdown string
}

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:    *loadServerConfig(),
		Data:      *loadDataConfig(),
		UI:        *loadUIConfig(),
		Profiling: *loadProfilingConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "debug"),
	}
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		File:             getEnvOrDefault("DATA_FILE", "student_data.xlsx"),
		SheetName:        getEnvOrDefault("DATA_SHEET", "Sheet1"),
		HistogramBuckets: getEnvIntOrDefault("HISTOGRAM_BINS", 10),
	}
}

func loadUIConfig() *UIConfig {
	return &UIConfig{
		Title:          getEnvOrDefault("APP_TITLE", "Student Data Management & Analysis"),
		FooterMarkdown: os.Getenv("FOOTER_MARKDOWN"),
	}
}

func loadProfilingConfig() *ProfilingConfig {
	return &ProfilingConfig{
		Port:    getEnvOrDefault("PPROF_PORT", "6060"),
		Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
	}
}

func validateConfig(config *Config) error {
	switch strings.ToLower(filepath.Ext(config.Data.File)) {
	case ".xlsx", ".xlsm", ".csv":
	default:
		return errors.ConfigInvalid("DATA_FILE must end in .xlsx or .csv")
	}
	if port, err := strconv.Atoi(config.Server.Port); err != nil || port <= 0 || port > 65535 {
		return errors.ConfigInvalid("PORT must be a number between 1 and 65535")
	}
	switch config.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid("GIN_MODE must be debug, release or test")
	}
	if config.Data.HistogramBuckets < 1 || config.Data.HistogramBuckets > 100 {
		return errors.ConfigInvalid("HISTOGRAM_BINS must be between 1 and 100")
	}
	if strings.TrimSpace(config.Data.SheetName) == "" {
		return errors.ConfigInvalid("DATA_SHEET must not be blank")
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

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
