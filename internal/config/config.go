package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig
	Model       ModelConfig
	Pricing     PricingConfig
	PostgreSQL  PostgreSQLConfig
	Redis       RedisConfig
	Comparables ComparablesConfig
	Ranking     RankingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port                   int
	Host                   string
	GinMode                string
	AllowedOrigins         string
	AllowedMethods         string
	AllowedHeaders         string
	ShutdownTimeoutSeconds int
}

// ModelConfig locates the trained model artifact and its metadata file
type ModelConfig struct {
	Dir      string
	File     string
	InfoFile string
	Path     string // explicit artifact path, overrides Dir/File
	InfoPath string // explicit metadata path, overrides Dir/InfoFile
}

// PricingConfig holds the response labels and the price floor
type PricingConfig struct {
	MinPrice float64
	Currency string
	Period   string
}

// PostgreSQLConfig holds PostgreSQL database configuration for the comparable villa store
type PostgreSQLConfig struct {
	DSN                string
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
	Enabled            bool
}

// RedisConfig holds the optional comparable villa cache configuration
type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	TTLSeconds int
	Enabled    bool
}

// ComparablesConfig holds limits for comparable villa lookups
type ComparablesConfig struct {
	DefaultLimit int
	MaxLimit     int
}

// RankingConfig holds ranking weights for comparable villas
type RankingConfig struct {
	WeightSimilarity float64
	WeightPrice      float64
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	dsn := getEnv("DATABASE_URL", getEnv("POSTGRESQL_URI", getEnv("PG_DSN", "")))

	cfg := &Config{
		Server: ServerConfig{
			Port:                   getEnvAsInt("SERVER_PORT", getEnvAsInt("PORT", 8000)),
			Host:                   getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:                getEnv("GIN_MODE", "release"),
			AllowedOrigins:         getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods:         getEnv("CORS_ALLOWED_METHODS", "GET,POST,OPTIONS"),
			AllowedHeaders:         getEnv("CORS_ALLOWED_HEADERS", "Content-Type,Authorization,X-Request-ID"),
			ShutdownTimeoutSeconds: getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 10),
		},
		Model: ModelConfig{
			Dir:      getEnv("MODEL_DIR", filepath.Join("data", "models")),
			File:     getEnv("MODEL_FILE", "villa_price_model.json"),
			InfoFile: getEnv("MODEL_INFO_FILE", "model_info.json"),
			Path:     getEnv("MODEL_PATH", ""),
			InfoPath: getEnv("MODEL_INFO_PATH", ""),
		},
		Pricing: PricingConfig{
			MinPrice: getEnvAsFloat("PRICE_MIN", 20.0),
			Currency: getEnv("PRICE_CURRENCY", "USD"),
			Period:   getEnv("PRICE_PERIOD", "per night"),
		},
		PostgreSQL: PostgreSQLConfig{
			DSN:                dsn,
			Host:               getEnv("PG_HOST", ""),
			Port:               getEnvAsInt("PG_PORT", 5432),
			User:               getEnv("PG_USER", "postgres"),
			Password:           getEnv("PG_PASSWORD", ""),
			Database:           getEnv("PG_DATABASE", "villa_pricing"),
			SSLMode:            getEnv("PG_SSLMODE", "disable"),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 5),
		},
		Redis: RedisConfig{
			Addr:       getEnv("REDIS_ADDR", ""),
			Password:   getEnv("REDIS_PASSWORD", ""),
			DB:         getEnvAsInt("REDIS_DB", 0),
			TTLSeconds: getEnvAsInt("REDIS_CACHE_TTL_SECONDS", 300),
		},
		Comparables: ComparablesConfig{
			DefaultLimit: getEnvAsInt("COMPARABLES_DEFAULT_LIMIT", 5),
			MaxLimit:     getEnvAsInt("COMPARABLES_MAX_LIMIT", 50),
		},
		Ranking: RankingConfig{
			WeightSimilarity: getEnvAsFloat("RANK_WEIGHT_SIMILARITY", 0.7),
			WeightPrice:      getEnvAsFloat("RANK_WEIGHT_PRICE", 0.3),
		},
	}

	// The store is optional: only a DSN or an explicit host turns it on.
	cfg.PostgreSQL.Enabled = cfg.PostgreSQL.DSN != "" || cfg.PostgreSQL.Host != ""
	cfg.Redis.Enabled = cfg.Redis.Addr != ""

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Pricing.MinPrice < 0 {
		return fmt.Errorf("PRICE_MIN must not be negative, got %.2f", c.Pricing.MinPrice)
	}
	if c.Redis.TTLSeconds <= 0 {
		c.Redis.TTLSeconds = 300
	}
	if c.Comparables.DefaultLimit <= 0 {
		c.Comparables.DefaultLimit = 5
	}
	if c.Comparables.MaxLimit < c.Comparables.DefaultLimit {
		c.Comparables.MaxLimit = c.Comparables.DefaultLimit
	}
	return nil
}

// ModelPath returns the trained model artifact path
func (c *Config) ModelPath() string {
	if c.Model.Path != "" {
		return c.Model.Path
	}
	return filepath.Join(c.Model.Dir, c.Model.File)
}

// ModelInfoPath returns the model metadata path, a sibling of the artifact by default
func (c *Config) ModelInfoPath() string {
	if c.Model.InfoPath != "" {
		return c.Model.InfoPath
	}
	if c.Model.Path != "" {
		return filepath.Join(filepath.Dir(c.Model.Path), c.Model.InfoFile)
	}
	return filepath.Join(c.Model.Dir, c.Model.InfoFile)
}

// GetPostgreSQLDSN returns PostgreSQL connection string
func (c *Config) GetPostgreSQLDSN() string {
	if c.PostgreSQL.DSN != "" {
		return c.PostgreSQL.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgreSQL.Host,
		c.PostgreSQL.Port,
		c.PostgreSQL.User,
		c.PostgreSQL.Password,
		c.PostgreSQL.Database,
		c.PostgreSQL.SSLMode,
	)
}

// SplitList splits a comma-separated config value, dropping empty items
func SplitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float value for %s, using default %f", key, defaultValue)
		return defaultValue
	}
	return value
}
