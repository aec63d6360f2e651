package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	RedisURL string

	JWTSecret string
	JWTTTL    time.Duration

	// Commission the company retains on CASH works, as a fraction of the
	// base amount (charge + adjustment + subsidy).
	CommissionRate float64

	// Shared secret required to self-register a contractor account.
	ContractorCreateKey string

	AlertWebhookURL string

	LogLevel  string
	LogPretty bool
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8001"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASS"),
		DBName:     getEnv("DB_NAME", "dispatchhub"),
		DBPort:     getEnv("DB_PORT", "5432"),

		RedisURL: os.Getenv("REDIS_URL"),

		JWTSecret: getEnv("JWT_SECRET", "change-me"),

		ContractorCreateKey: os.Getenv("CONTRACTOR_CREATE_KEY"),
		AlertWebhookURL:     os.Getenv("ALERT_WEBHOOK_URL"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: getEnv("APP_ENV", "development") == "development",
	}

	ttlMinutes, err := strconv.Atoi(getEnv("JWT_TTL_MINUTES", "1440"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL_MINUTES: %w", err)
	}
	cfg.JWTTTL = time.Duration(ttlMinutes) * time.Minute

	cfg.CommissionRate, err = strconv.ParseFloat(getEnv("COMMISSION_RATE", "0.1"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid COMMISSION_RATE: %w", err)
	}
	if cfg.CommissionRate < 0 || cfg.CommissionRate >= 1 {
		return nil, fmt.Errorf("COMMISSION_RATE must be in [0, 1), got %v", cfg.CommissionRate)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
