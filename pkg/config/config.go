// ABOUTME: Configuration management for the application with environment variable support
// ABOUTME: Defines configuration structures for server, Etsy, cache, logging and the web viewer

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server contains HTTP server configuration
	Server ServerConfig

	// Etsy contains listing provider configuration
	Etsy EtsyConfig

	// Cache contains cache configuration
	Cache CacheConfig

	// RateLimit contains per-client request limits
	RateLimit RateLimitConfig

	// Log contains logger configuration
	Log LogConfig

	// Web contains the viewer frontend configuration
	Web WebConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	// Port is the backend HTTP port
	Port string
}

// EtsyConfig holds listing provider configuration
type EtsyConfig struct {
	// APIKey enables the Open API provider when set
	APIKey string

	// APIBaseURL is the Etsy Open API base
	APIBaseURL string

	// SiteBaseURL is used by the listing page scraper
	SiteBaseURL string
}

// CacheConfig holds cache backend configuration
type CacheConfig struct {
	// Type specifies the cache backend (memory/redis/sqlite)
	Type string

	// TTL is how long listing details stay cached
	TTL time.Duration

	// Redis contains Redis-specific configuration
	Redis RedisConfig

	// SQLite contains SQLite-specific configuration
	SQLite SQLiteConfig
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Address is the Redis server address
	Address string

	// Password is the Redis authentication password
	Password string

	// DB is the Redis database number
	DB int

	// KeyPrefix namespaces every key written by this service
	KeyPrefix string
}

// SQLiteConfig holds SQLite-specific configuration
type SQLiteConfig struct {
	Path string
}

// RateLimitConfig holds per-IP limiter settings
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate
	RequestsPerSecond float64

	// Burst is the bucket size
	Burst int

	// TrustedProxies are IPs or CIDRs whose X-Forwarded-For and X-Real-IP
	// headers identify the client. Empty means the peer address is used.
	TrustedProxies []string
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string
	Format string
	File   string
}

// WebConfig holds the viewer frontend settings
type WebConfig struct {
	// Port is the frontend HTTP port
	Port string

	// APIURL is the backend base the viewer calls
	APIURL string
}

// LoadFromEnv loads configuration from environment variables.
// A .env file (or the file named by ENV_FILE) is read first when present;
// variables already set in the environment win.
func LoadFromEnv() (*Config, error) {
	envFile := getEnvOrDefault("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Etsy: EtsyConfig{
			APIKey:      os.Getenv("ETSY_API_KEY"),
			APIBaseURL:  strings.TrimRight(getEnvOrDefault("ETSY_API_BASE_URL", "https://openapi.etsy.com"), "/"),
			SiteBaseURL: strings.TrimRight(getEnvOrDefault("ETSY_SITE_BASE_URL", "https://www.etsy.com"), "/"),
		},
		Cache: CacheConfig{
			Type: strings.ToLower(getEnvOrDefault("CACHE_TYPE", "memory")),
			TTL:  time.Duration(getEnvAsIntOrDefault("CACHE_TTL", 300)) * time.Second,
			Redis: RedisConfig{
				Address:   getEnvOrDefault("REDIS_ADDRESS", "localhost:6379"),
				Password:  getEnvOrDefault("REDIS_PASSWORD", ""),
				DB:        getEnvAsIntOrDefault("REDIS_DB", 0),
				KeyPrefix: getEnvOrDefault("REDIS_KEY_PREFIX", "etsy-viewer"),
			},
			SQLite: SQLiteConfig{
				Path: getEnvOrDefault("SQLITE_PATH", "cache.db"),
			},
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: getEnvAsFloatOrDefault("RATE_LIMIT", 10),
			Burst:             getEnvAsIntOrDefault("RATE_BURST", 20),
			TrustedProxies:    getEnvAsListOrDefault("TRUSTED_PROXIES", nil),
		},
		Log: LogConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "text"),
			File:   os.Getenv("LOG_FILE"),
		},
		Web: WebConfig{
			Port:   getEnvOrDefault("WEB_PORT", "3000"),
			APIURL: strings.TrimRight(getEnvOrDefault("VIEWER_API_URL", "http://localhost:3001"), "/"),
		},
	}

	return cfg, nil
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the environment variable as int or a default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvAsListOrDefault splits a comma-separated variable, dropping blank entries
func getEnvAsListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("port cannot be empty")
	}

	switch c.Cache.Type {
	case "memory", "redis", "sqlite":
	default:
		return errors.New("cache type must be 'memory', 'redis' or 'sqlite'")
	}

	if c.Cache.Type == "redis" && c.Cache.Redis.Address == "" {
		return errors.New("redis address cannot be empty when using redis cache")
	}

	if c.Cache.Type == "sqlite" && c.Cache.SQLite.Path == "" {
		return errors.New("sqlite path cannot be empty when using sqlite cache")
	}

	if c.Cache.TTL < 0 {
		return errors.New("cache ttl cannot be negative")
	}

	if c.RateLimit.RequestsPerSecond <= 0 {
		return errors.New("rate limit must be positive")
	}

	if c.RateLimit.Burst < 1 {
		return errors.New("rate burst must be at least 1")
	}

	return nil
}

// ValidateWeb checks the settings the viewer frontend needs
func (c *Config) ValidateWeb() error {
	if c.Web.Port == "" {
		return errors.New("web port cannot be empty")
	}
	if c.Web.APIURL == "" {
		return errors.New("viewer api url cannot be empty")
	}
	return nil
}
