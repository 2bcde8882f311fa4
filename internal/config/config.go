package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration, loaded from the environment.
type Config struct {
	Server     ServerConfig
	MongoDB    MongoConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Generation GenerationConfig
	Storage    StorageConfig
	RateLimit  RateLimitConfig
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Port            string
	Mode            string
	ShutdownTimeout time.Duration
}

// MongoConfig represents MongoDB configuration
type MongoConfig struct {
	URI      string
	Database string
}

// RedisConfig represents Redis configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// JWTConfig represents JWT configuration
type JWTConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Issuer     string
}

// GenerationConfig represents generation backend configuration
type GenerationConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// StorageConfig represents blob storage configuration
type StorageConfig struct {
	Bucket      string
	Region      string
	AccessKey   string
	SecretKey   string
	Endpoint    string
	BaseURL     string
	MaxFileSize int64
}

// RateLimitConfig represents rate limiting configuration
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// Load reads configuration from the environment, with a .env file as a
// development convenience.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Mode:            getEnv("GIN_MODE", "debug"),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
		},
		MongoDB: MongoConfig{
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "contenthub"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:     os.Getenv("JWT_SECRET"),
			AccessTTL:  getDuration("JWT_ACCESS_TTL", 15*time.Minute),
			RefreshTTL: getDuration("JWT_REFRESH_TTL", 7*24*time.Hour),
			Issuer:     getEnv("JWT_ISSUER", "contenthub"),
		},
		Generation: GenerationConfig{
			BaseURL: getEnv("GENERATION_BASE_URL", "http://localhost:9000"),
			APIKey:  os.Getenv("GENERATION_API_KEY"),
			Timeout: getDuration("GENERATION_TIMEOUT", 30*time.Second),
		},
		Storage: StorageConfig{
			Bucket:      os.Getenv("S3_BUCKET"),
			Region:      getEnv("S3_REGION", "us-east-1"),
			AccessKey:   os.Getenv("S3_ACCESS_KEY"),
			SecretKey:   os.Getenv("S3_SECRET_KEY"),
			Endpoint:    os.Getenv("S3_ENDPOINT"),
			BaseURL:     os.Getenv("S3_BASE_URL"),
			MaxFileSize: int64(getInt("S3_MAX_FILE_SIZE", 10<<20)),
		},
		RateLimit: RateLimitConfig{
			Requests: getInt("RATE_LIMIT_REQUESTS", 300),
			Window:   getDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
