package config

import (
	"os"
	"strconv"

	"goterm/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Data     DataConfig
	Analysis AnalysisConfig
	Server   ServerConfig
	Database DatabaseConfig
}

// DataConfig holds the ontology and annotation input files
type DataConfig struct {
	OntologyFile    string
	AssociationFile string
}

// AnalysisConfig holds the enrichment defaults
type AnalysisConfig struct {
	Aspect         string
	PopulationSize int
	Mode           string
	Correction     string
	Alpha          float64
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds optional result-store settings. Persistence is
// disabled when URL is empty.
type DatabaseConfig struct {
	URL string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Data: DataConfig{
			OntologyFile:    os.Getenv("ONTOLOGY_FILE"),
			AssociationFile: os.Getenv("ASSOCIATION_FILE"),
		},
		Analysis: AnalysisConfig{
			Aspect:         getEnvOrDefault("ASPECT", "process"),
			PopulationSize: getEnvIntOrDefault("POPULATION_SIZE", 0),
			Mode:           getEnvOrDefault("MODE", "hypergeometric"),
			Correction:     getEnvOrDefault("CORRECTION", "minimal-set"),
			Alpha:          getEnvFloatOrDefault("ALPHA", 0.05),
		},
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Data.OntologyFile == "" {
		return errors.ConfigInvalid("ONTOLOGY_FILE is required")
	}
	if config.Data.AssociationFile == "" {
		return errors.ConfigInvalid("ASSOCIATION_FILE is required")
	}
	if config.Analysis.PopulationSize < 0 {
		return errors.ConfigInvalid("POPULATION_SIZE must be >= 0")
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
