package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration resolved from environment
// variables.
type Config struct {
	Port          string
	DataDir       string
	JWTSecret     string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TrainSamples  int
	TrainSeed     int64
	CacheTTL      time.Duration
	RateLimitMin  int
	LogLevel      string
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DataDir:       getEnv("DATA_DIR", "./data"),
		JWTSecret:     getEnv("JWT_SECRET", "creditbridge-dev-secret"),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.RedisDB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.TrainSamples, err = getEnvInt("TRAIN_SAMPLES", 5000); err != nil {
		return nil, err
	}
	if cfg.RateLimitMin, err = getEnvInt("RATE_LIMIT_PER_MIN", 60); err != nil {
		return nil, err
	}

	seed, err := getEnvInt("TRAIN_SEED", 42)
	if err != nil {
		return nil, err
	}
	cfg.TrainSeed = int64(seed)

	ttlSeconds, err := getEnvInt("CACHE_TTL_SECONDS", 300)
	if err != nil {
		return nil, err
	}
	cfg.CacheTTL = time.Duration(ttlSeconds) * time.Second

	if cfg.TrainSamples < 10 {
		return nil, fmt.Errorf("TRAIN_SAMPLES must be at least 10, got %d", cfg.TrainSamples)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultVal, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, value)
	}
	return parsed, nil
}
