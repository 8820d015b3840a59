package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DBPath    string `yaml:"db_path"`
	Backend   string `yaml:"backend"`
	AutoDump  bool   `yaml:"auto_dump"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// LoadConfig loads configuration from a YAML file if path is provided,
// otherwise it falls back to environment variables.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	// If path is provided and file exists, load from YAML
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
			// Apply environment variable overrides
			applyEnvOverrides(&cfg)
			return applyDefaults(&cfg)
		}
		// If path was explicitly provided but file doesn't exist, return error
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Load from environment variables
	cfg.DBPath = os.Getenv("ACHAR_DB_PATH")
	cfg.Backend = os.Getenv("ACHAR_BACKEND")
	cfg.LogLevel = os.Getenv("ACHAR_LOG_LEVEL")
	cfg.LogFormat = os.Getenv("ACHAR_LOG_FORMAT")

	// Parse ACHAR_AUTO_DUMP as boolean
	if autoStr := os.Getenv("ACHAR_AUTO_DUMP"); autoStr != "" {
		auto, err := strconv.ParseBool(autoStr)
		if err != nil {
			return nil, fmt.Errorf("invalid ACHAR_AUTO_DUMP value: %w", err)
		}
		cfg.AutoDump = auto
	}

	return applyDefaults(&cfg)
}

// applyDefaults fills unset fields and validates the result.
func applyDefaults(cfg *Config) (*Config, error) {
	if cfg.Backend == "" {
		cfg.Backend = "file"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "INFO"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.DBPath == "" && cfg.Backend != "memory" {
		cfg.DBPath = "achar.db"
	}

	switch cfg.Backend {
	case "file", "bolt", "memory":
	default:
		return nil, fmt.Errorf("invalid backend %q (want file, bolt or memory)", cfg.Backend)
	}

	return cfg, nil
}

// applyEnvOverrides allows environment variables to override YAML config values
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ACHAR_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("ACHAR_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("ACHAR_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("ACHAR_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("ACHAR_AUTO_DUMP"); v != "" {
		if auto, err := strconv.ParseBool(v); err == nil {
			cfg.AutoDump = auto
		}
	}
}
