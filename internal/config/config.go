package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL    string
	HTTPListenAddr string
	LogLevel       string
	ServiceName    string

	JWTSecret string
	JWTIssuer string

	// Heartbeat worker settings.
	HeartbeatSchedule     string
	HeartbeatLogChance    float64
	HeartbeatMaxParallel  int
	HeartbeatMessagesFile string
	MetricsListenAddr     string
}

// Load reads configuration from the environment. A .env file in the working
// directory is folded in first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		HTTPListenAddr:        getEnv("HTTP_LISTEN_ADDR", ":8090"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		ServiceName:           getEnv("SERVICE_NAME", ""),
		JWTSecret:             getEnv("JWT_SECRET", ""),
		JWTIssuer:             getEnv("JWT_ISSUER", "botfarm"),
		HeartbeatSchedule:     getEnv("HEARTBEAT_SCHEDULE", "*/30 * * * * *"),
		HeartbeatMessagesFile: getEnv("HEARTBEAT_MESSAGES_FILE", ""),
		MetricsListenAddr:     getEnv("METRICS_LISTEN_ADDR", ":9100"),
	}

	var err error
	if cfg.HeartbeatLogChance, err = getEnvFloat("HEARTBEAT_LOG_CHANCE", 0.3); err != nil {
		return nil, err
	}
	if cfg.HeartbeatMaxParallel, err = getEnvInt("HEARTBEAT_MAX_PARALLEL", 8); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the fields the named service cannot run without.
func (c *Config) Validate(service string) error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("%s: DATABASE_URL is required", service)
	}
	if service == "botfarm-api" && c.JWTSecret == "" {
		return fmt.Errorf("%s: JWT_SECRET is required", service)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return f, nil
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}
