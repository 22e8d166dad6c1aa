package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port      string
	Env       string
	JWTSecret string
	JWTTTL    time.Duration

	DB     DatabaseConfig
	Redis  RedisConfig
	Store  StoreConfig
	Cache  CacheConfig
	Worker WorkerConfig
	S3     S3Config
	CORS   CORSConfig
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// StoreConfig describes how prices are displayed.
type StoreConfig struct {
	Currency string
	Locale   string
}

// CacheConfig controls product snapshot and cart lifetimes in Redis.
type CacheConfig struct {
	ProductTTL time.Duration
	CartTTL    time.Duration
}

// WorkerConfig contains interval configuration for background workers.
type WorkerConfig struct {
	CatalogAuditInterval time.Duration
	CatalogAuditEnabled  bool
}

// S3Config is used by the catalog importer for s3:// sources.
type S3Config struct {
	Region   string
	Endpoint string
}

// CORSConfig lists the storefront origins allowed to call the API.
type CORSConfig struct {
	AllowedHosts []string
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Missing .env is fine: production relies on real environment variables.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")

	// Database
	cfg.DB = loadDatabase()

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// Store presentation
	cfg.Store = StoreConfig{
		Currency: getEnv("STORE_CURRENCY", "COP"),
		Locale:   getEnv("STORE_LOCALE", "es-CO"),
	}

	cfg.S3 = loadS3()

	cfg.CORS = CORSConfig{
		AllowedHosts: getEnvList("CORS_ALLOWED_HOSTS", "localhost:3000,127.0.0.1:3000,mundoreptil.com,www.mundoreptil.com"),
	}

	var err error
	if cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", "24h"); err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	if cfg.Cache.ProductTTL, err = parseDurationEnv("PRODUCT_CACHE_TTL", "5m"); err != nil {
		return nil, fmt.Errorf("invalid PRODUCT_CACHE_TTL: %w", err)
	}
	if cfg.Cache.CartTTL, err = parseDurationEnv("CART_TTL", "168h"); err != nil {
		return nil, fmt.Errorf("invalid CART_TTL: %w", err)
	}
	if cfg.Worker.CatalogAuditInterval, err = parseDurationEnv("CATALOG_AUDIT_INTERVAL", "1h"); err != nil {
		return nil, fmt.Errorf("invalid CATALOG_AUDIT_INTERVAL: %w", err)
	}
	cfg.Worker.CatalogAuditEnabled = getEnvBool("CATALOG_AUDIT_ENABLED", true)

	if err := cfg.DB.Validate(); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set for authentication")
	}

	return cfg, nil
}

// LoadDatabase reads only the database settings, for tools such as the
// catalog seeder that do not serve HTTP.
func LoadDatabase() (*DatabaseConfig, error) {
	_ = godotenv.Load()
	db := loadDatabase()
	if err := db.Validate(); err != nil {
		return nil, err
	}
	return &db, nil
}

// LoadS3 reads the object storage settings used by the catalog importer.
func LoadS3() S3Config {
	_ = godotenv.Load()
	return loadS3()
}

func loadS3() S3Config {
	return S3Config{
		Region:   getEnv("S3_REGION", "us-east-1"),
		Endpoint: getEnv("S3_ENDPOINT", ""),
	}
}

func loadDatabase() DatabaseConfig {
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}
}

// Validate reports missing connection parameters.
func (c DatabaseConfig) Validate() error {
	if c.Host == "" || c.User == "" || c.Name == "" {
		return errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
	}
	return nil
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// getEnvList splits a comma separated variable, dropping blank entries.
func getEnvList(key, def string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, def), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
