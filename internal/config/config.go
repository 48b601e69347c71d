package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Backend modes understood by the bootstrap
const (
	BackendREST     = "rest"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port       string `yaml:"port" env:"SERVER_PORT"`
		Mode       string `yaml:"mode" env:"SERVER_MODE"`
		SessionKey string `yaml:"session_cookie" env:"SERVER_SESSION_COOKIE"`
		// CSRFKey enables form token checks; 32 bytes, empty disables
		CSRFKey string `yaml:"csrf_key" env:"SERVER_CSRF_KEY"`
	} `yaml:"server"`

	Backend struct {
		Mode    string `yaml:"mode" env:"BACKEND_MODE"`
		BaseURL string `yaml:"base_url" env:"BACKEND_BASE_URL"`
		Timeout string `yaml:"timeout" env:"BACKEND_TIMEOUT"`
	} `yaml:"backend"`

	// Auth verifies identity tokens issued by the sign-in service. With no
	// secret the gateway identity headers are trusted instead.
	Auth struct {
		JWTSecret   string `yaml:"jwt_secret" env:"AUTH_JWT_SECRET"`
		Issuer      string `yaml:"issuer" env:"AUTH_ISSUER"`
		TokenCookie string `yaml:"token_cookie" env:"AUTH_TOKEN_COOKIE"`
	} `yaml:"auth"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	UI struct {
		RevealOffset  float64 `yaml:"reveal_offset" env:"UI_REVEAL_OFFSET"`
		HeroThreshold float64 `yaml:"hero_threshold" env:"UI_HERO_THRESHOLD"`
	} `yaml:"ui"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// The file is optional; defaults and env vars are enough to boot in memory mode
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	// Server defaults
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.SessionKey = "cuet_sid"

	// Backend defaults
	config.Backend.Mode = BackendMemory
	config.Backend.Timeout = "10s"

	// Auth defaults
	config.Auth.Issuer = "cuet-cms"
	config.Auth.TokenCookie = "cuet_token"

	// Database defaults
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "cuet_class"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 10
	config.Database.ConnMaxLifetime = "1h"

	// Logging defaults
	config.Logging.Level = "info"
	config.Logging.Format = "json"

	// UI defaults
	config.UI.RevealOffset = 150
	config.UI.HeroThreshold = 0.1
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	switch strings.ToLower(config.Backend.Mode) {
	case BackendREST:
		if config.Backend.BaseURL == "" {
			return fmt.Errorf("backend base_url is required in rest mode")
		}
	case BackendPostgres:
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required in postgres mode")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown backend mode %q", config.Backend.Mode)
	}

	if _, err := time.ParseDuration(config.Backend.Timeout); err != nil {
		return fmt.Errorf("invalid backend timeout format: %w", err)
	}

	if n := len(config.Server.CSRFKey); n != 0 && n != 32 {
		return fmt.Errorf("csrf key must be 32 bytes, got %d", n)
	}

	if n := len(config.Auth.JWTSecret); n != 0 && n < 32 {
		return fmt.Errorf("jwt secret must be at least 32 bytes, got %d", n)
	}

	if config.UI.HeroThreshold < 0 || config.UI.HeroThreshold > 1 {
		return fmt.Errorf("hero threshold must be within [0,1], got %v", config.UI.HeroThreshold)
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// GetEnvAsInt gets an environment variable as an integer or returns a default value
func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := GetEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
