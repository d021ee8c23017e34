// Package config provides unified configuration for the easydict service.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (EASYDICT_ prefix)
//  4. File reference resolution (_file suffix fields)
//  5. Validation
package config

import "time"

// Config holds all configuration for the easydict service.
type Config struct {
	Translator    TranslatorConfig    `yaml:"translator"`
	Storage       StorageConfig       `yaml:"storage"`
	Observability ObservabilityConfig `yaml:"observability"`
	Debug         DebugConfig         `yaml:"debug"`
}

// DebugConfig holds debug logging settings. The EASYDICT_DEBUG and
// EASYDICT_LOG_LEVEL environment variables override these.
type DebugConfig struct {
	Categories string `yaml:"categories"` // e.g. "translate,streaming" or "all"
	Level      string `yaml:"level"`      // ERROR, WARN, INFO, DEBUG, TRACE
}

// TranslatorConfig holds backend endpoint and model settings.
type TranslatorConfig struct {
	Endpoint   string        `yaml:"endpoint"`     // required
	APIKey     string        `yaml:"api_key"`      // optional
	APIKeyFile string        `yaml:"api_key_file"` // _file variant for api_key
	Model      string        `yaml:"model"`        // required
	Timeout    time.Duration `yaml:"timeout"`      // first-byte timeout, default: 15s
	Proxy      string        `yaml:"proxy"`        // optional proxy URL
}

// StorageConfig holds translation history settings.
type StorageConfig struct {
	Type     string         `yaml:"type"`     // "memory" or "postgres", default: "memory"
	MaxSize  int            `yaml:"max_size"` // for memory store, default: 1000
	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig holds PostgreSQL-specific settings.
type PostgresConfig struct {
	DSN            string `yaml:"dsn"`
	DSNFile        string `yaml:"dsn_file"`         // _file variant for dsn
	MaxConns       int32  `yaml:"max_conns"`        // default: 25
	MigrateOnStart bool   `yaml:"migrate_on_start"` // default: false
}

// ObservabilityConfig holds monitoring and instrumentation settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig holds Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: false
	Listen  string `yaml:"listen"`  // default: ":9090"
	Path    string `yaml:"path"`    // default: "/metrics"
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Translator: TranslatorConfig{
			Timeout: 15 * time.Second,
		},
		Storage: StorageConfig{
			Type:    "memory",
			MaxSize: 1000,
			Postgres: PostgresConfig{
				MaxConns: 25,
			},
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Listen: ":9090",
				Path:   "/metrics",
			},
		},
	}
}
