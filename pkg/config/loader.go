package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from a layered set of sources.
//
// The loading order is:
//  1. Built-in defaults
//  2. YAML config file (explicit path, EASYDICT_CONFIG env, ./config.yaml, /etc/easydict/config.yaml)
//  3. Environment variable overrides
//  4. File reference resolution (_file suffix)
//  5. Validation
func Load(configPath string) (*Config, error) {
	cfg := Defaults()

	filePath := discoverConfigFile(configPath)
	if filePath != "" {
		if err := loadYAMLFile(filePath, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", filePath, err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := resolveFileReferences(&cfg); err != nil {
		return nil, fmt.Errorf("resolving file references: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// discoverConfigFile finds the config file path using the discovery order:
// 1. Explicit configPath argument
// 2. EASYDICT_CONFIG environment variable
// 3. ./config.yaml in the current directory
// 4. /etc/easydict/config.yaml
//
// Returns empty string if no config file is found.
func discoverConfigFile(configPath string) string {
	if configPath != "" {
		return configPath
	}

	if envPath := os.Getenv("EASYDICT_CONFIG"); envPath != "" {
		return envPath
	}

	candidates := []string{
		"config.yaml",
		"/etc/easydict/config.yaml",
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// loadYAMLFile reads and parses a YAML file into the Config struct.
// Fields not present in the YAML retain their current (default) values.
func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyEnvOverrides maps EASYDICT_* environment variables to config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("EASYDICT_ENDPOINT"); v != "" {
		cfg.Translator.Endpoint = v
	}
	if v := os.Getenv("EASYDICT_API_KEY"); v != "" {
		cfg.Translator.APIKey = v
	}
	if v := os.Getenv("EASYDICT_MODEL"); v != "" {
		cfg.Translator.Model = v
	}
	if v := os.Getenv("EASYDICT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Translator.Timeout = d
		}
	}
	if v := os.Getenv("EASYDICT_PROXY"); v != "" {
		cfg.Translator.Proxy = v
	}
	if v := os.Getenv("EASYDICT_STORAGE"); v != "" {
		cfg.Storage.Type = v
	}
	if v := os.Getenv("EASYDICT_STORAGE_SIZE"); v != "" {
		if size, err := strconv.Atoi(v); err == nil {
			cfg.Storage.MaxSize = size
		}
	}
	if v := os.Getenv("EASYDICT_POSTGRES_DSN"); v != "" {
		cfg.Storage.Postgres.DSN = v
	}
	if v := os.Getenv("EASYDICT_METRICS"); v != "" {
		cfg.Observability.Metrics.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("EASYDICT_METRICS_LISTEN"); v != "" {
		cfg.Observability.Metrics.Listen = v
	}
}

// resolveFileReferences reads _file fields and populates the corresponding value fields.
// For each field ending in _file, if the value field is empty and the file field is set,
// the file is read, whitespace is trimmed, and the value field is populated.
func resolveFileReferences(cfg *Config) error {
	if cfg.Translator.APIKeyFile != "" && cfg.Translator.APIKey == "" {
		val, err := readSecretFile(cfg.Translator.APIKeyFile)
		if err != nil {
			return fmt.Errorf("translator.api_key_file: %w", err)
		}
		cfg.Translator.APIKey = val
	}

	if cfg.Storage.Postgres.DSNFile != "" && cfg.Storage.Postgres.DSN == "" {
		val, err := readSecretFile(cfg.Storage.Postgres.DSNFile)
		if err != nil {
			return fmt.Errorf("storage.postgres.dsn_file: %w", err)
		}
		cfg.Storage.Postgres.DSN = val
	}

	return nil
}

// readSecretFile reads a file and returns its content with surrounding whitespace trimmed.
func readSecretFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
