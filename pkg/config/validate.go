package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	if c.Translator.Endpoint == "" {
		errs = append(errs, fmt.Errorf("translator.endpoint is required"))
	}

	if c.Translator.Model == "" {
		errs = append(errs, fmt.Errorf("translator.model is required"))
	}

	if c.Translator.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("translator.timeout must be > 0, got %s", c.Translator.Timeout))
	}

	if c.Translator.Proxy != "" {
		if _, err := url.Parse(c.Translator.Proxy); err != nil {
			errs = append(errs, fmt.Errorf("translator.proxy: %w", err))
		}
	}

	switch c.Storage.Type {
	case "memory", "postgres":
		// valid
	default:
		errs = append(errs, fmt.Errorf("storage.type must be \"memory\" or \"postgres\", got %q", c.Storage.Type))
	}

	if c.Storage.Type == "postgres" {
		if c.Storage.Postgres.DSN == "" && c.Storage.Postgres.DSNFile == "" {
			errs = append(errs, fmt.Errorf("storage.postgres.dsn or storage.postgres.dsn_file is required when storage.type is \"postgres\""))
		}
	}

	if c.Storage.Type == "memory" && c.Storage.MaxSize <= 0 {
		errs = append(errs, fmt.Errorf("storage.max_size must be > 0, got %d", c.Storage.MaxSize))
	}

	return errors.Join(errs...)
}
