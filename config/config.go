package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment `mapstructure:"-"`

	// Server configuration
	ServerPort     string `mapstructure:"SERVER_PORT"`
	ServerHost     string `mapstructure:"SERVER_HOST"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`

	// Database configuration
	DBDriver   string `mapstructure:"DB_DRIVER"`
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBSSLMode  string `mapstructure:"DB_SSL_MODE"`
	SQLitePath string `mapstructure:"SQLITE_PATH"`

	// Redis configuration
	RedisHost     string `mapstructure:"REDIS_HOST"`
	RedisPort     string `mapstructure:"REDIS_PORT"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
	RedisURL      string `mapstructure:"REDIS_URL"`

	// JWT configuration
	JWTSecret string `mapstructure:"JWT_SECRET"`

	// Recipe images
	S3BucketName string `mapstructure:"S3_BUCKET_NAME"`
	AWSRegion    string `mapstructure:"AWS_REGION"`

	// Relation add/remove requests allowed per user per minute; 0 disables the limiter.
	RelationRateLimit int `mapstructure:"RELATION_RATE_LIMIT"`

	LogLevel        string `mapstructure:"LOG_LEVEL"`
	TracingEnabled  bool   `mapstructure:"TRACING_ENABLED"`
	TracingExporter string `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint    string `mapstructure:"OTLP_ENDPOINT"`
}

// DefaultJWTSecret is only acceptable outside production.
const DefaultJWTSecret = "foodgram-development-secret-change-me"

// secretKeys are the Docker secret file names overlaid onto the configuration.
var secretKeys = []string{
	"db_user",
	"db_password",
	"jwt_secret",
	"redis_password",
	"redis_url",
	"db_host",
	"db_port",
	"db_name",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "foodgram")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("SQLITE_PATH", "foodgram.db")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("JWT_SECRET", DefaultJWTSecret)
	v.SetDefault("S3_BUCKET_NAME", "")
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("RELATION_RATE_LIMIT", 60)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("TRACING_ENABLED", false)
	v.SetDefault("TRACING_EXPORTER", "stdout")
	v.SetDefault("OTLP_ENDPOINT", "localhost:4318")
}

// LoadConfig builds the configuration from defaults, an optional
// config.<env>.yml and the process environment. Docker secrets (or the TEST_*
// variables in CI) take precedence over all of them.
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config." + string(env))
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	switch env {
	case CI:
		// CI passes sensitive values as TEST_* variables
		for _, key := range []string{"DB_PASSWORD", "JWT_SECRET", "REDIS_PASSWORD", "REDIS_URL"} {
			if value := os.Getenv("TEST_" + key); value != "" {
				v.Set(key, value)
			}
		}
	default:
		for _, name := range secretKeys {
			if value := readSecret(name); value != "" {
				v.Set(strings.ToUpper(name), value)
			}
		}
	}

	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	cfg.Environment = env

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Origins splits AllowedOrigins on commas.
func (c *Config) Origins() []string {
	var origins []string
	for _, origin := range strings.Split(c.AllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
