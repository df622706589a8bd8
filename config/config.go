package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Backend types
const (
	BackendREST     = "rest"
	BackendPostgres = "postgres"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Backend   BackendConfig   `mapstructure:"backend"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	MarketName     string   `mapstructure:"market_name"`
}

// BackendConfig selects and configures the directory data source
type BackendConfig struct {
	Type              string        `mapstructure:"type"` // "rest" or "postgres"
	URL               string        `mapstructure:"url"`
	AnonKey           string        `mapstructure:"anon_key"`
	DatabaseURL       string        `mapstructure:"database_url"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	Timeout           time.Duration `mapstructure:"timeout"`
	MaxRetries        int           `mapstructure:"max_retries"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"` // "json" or "console"
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Load loads configuration from the .env file, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/mapalengke/")

	// MAPALENGKE_SERVER_PORT -> server.port
	v.SetEnvPrefix("MAPALENGKE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env into the process environment without overriding
// variables that are already set. A missing file is not an error.
func loadEnvFile() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// setDefaults sets default configuration values.
// Every key needs a default so AutomaticEnv can bind it on Unmarshal.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})
	v.SetDefault("server.market_name", "Toril Public Market")

	// Backend defaults
	v.SetDefault("backend.type", BackendREST)
	v.SetDefault("backend.url", "")
	v.SetDefault("backend.anon_key", "")
	v.SetDefault("backend.database_url", "")
	v.SetDefault("backend.requests_per_second", 10)
	v.SetDefault("backend.burst", 20)
	v.SetDefault("backend.timeout", "15s")
	v.SetDefault("backend.max_retries", 3)

	// Cache defaults
	v.SetDefault("cache.ttl", "5m")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "json")
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Backend.Type {
	case BackendREST:
		if config.Backend.URL == "" {
			return fmt.Errorf("backend URL is required (set MAPALENGKE_BACKEND_URL)")
		}
		if config.Backend.AnonKey == "" {
			return fmt.Errorf("backend anon key is required (set MAPALENGKE_BACKEND_ANON_KEY)")
		}
		if config.Backend.RequestsPerSecond <= 0 || config.Backend.Burst <= 0 {
			return fmt.Errorf("backend rate limit must be positive, got %v/s burst %d",
				config.Backend.RequestsPerSecond, config.Backend.Burst)
		}
	case BackendPostgres:
		if config.Backend.DatabaseURL == "" {
			return fmt.Errorf("database URL is required when backend type is 'postgres'")
		}
	default:
		return fmt.Errorf("backend type must be 'rest' or 'postgres', got: %s", config.Backend.Type)
	}

	if config.RateLimit.PerIP <= 0 {
		return fmt.Errorf("per-IP rate limit must be positive, got: %d", config.RateLimit.PerIP)
	}

	return nil
}
