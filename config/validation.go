package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks the configuration against the requirements of its environment
func ValidateConfig(cfg *Config) error {
	var errs []string
	add := func(field, message string) {
		errs = append(errs, ValidationError{Field: field, Message: message}.Error())
	}

	if cfg.ServerPort == "" {
		add("SERVER_PORT", "is required")
	}
	if cfg.JWTSecret == "" {
		add("JWT_SECRET", "is required")
	}
	if cfg.RelationRateLimit < 0 {
		add("RELATION_RATE_LIMIT", "must not be negative")
	}

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DBHost == "" || cfg.DBName == "" {
			add("DB_HOST", "host and database name are required for postgres")
		}
	case "sqlite":
		if cfg.SQLitePath == "" {
			add("SQLITE_PATH", "is required for sqlite")
		}
	default:
		add("DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver))
	}

	switch cfg.Environment {
	case CI:
		if cfg.DBDriver == "postgres" && cfg.DBPassword == "" {
			add("DB_PASSWORD", "TEST_DB_PASSWORD environment variable is required in CI environment")
		}
	case Production:
		if cfg.DBDriver != "postgres" {
			add("DB_DRIVER", "production requires postgres")
		}
		if cfg.DBPassword == "" {
			add("DB_PASSWORD", "db_password secret is required")
		}
		if cfg.JWTSecret == DefaultJWTSecret || len(cfg.JWTSecret) < 32 {
			add("JWT_SECRET", "must be changed from the default and be at least 32 characters")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}
	return nil
}
