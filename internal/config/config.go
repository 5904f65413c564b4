package config

import (
	"log"
	"os"
	"strconv"
)

type Config struct {
	Port              string
	DatabaseDSN       string
	Env               string
	LowStockThreshold int
	AdminUsername     string
	AdminPassword     string
}

// Load loads configuration from environment with sensible defaults.
// Precedence: explicit env var > .env file (if loaded by caller) > default.
func Load() Config {
	cfg := Config{}
	cfg.Port = getEnv("PORT", "8080")
	cfg.DatabaseDSN = getEnv("DATABASE_DSN", "erp.db")
	cfg.Env = getEnv("APP_ENV", "development")
	cfg.LowStockThreshold = getEnvInt("LOW_STOCK_THRESHOLD", 10)
	cfg.AdminUsername = getEnv("ADMIN_USERNAME", "admin")
	cfg.AdminPassword = getEnv("ADMIN_PASSWORD", "admin123")
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid integer for %s: %s", key, v)
			return def
		}
		return n
	}
	return def
}
