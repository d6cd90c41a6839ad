package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries the server configuration.
type Config struct {
	Addr       string
	SQLitePath string
	RedisAddr  string
	SessionTTL time.Duration
}

// Load reads configuration from the environment, with a best-effort .env
// file on top.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Addr:       getEnvString("ADDR", ":8080"),
		SQLitePath: getEnvString("SQLITE_PATH", "fundmanager.db"),
		RedisAddr:  getEnvString("REDIS_ADDR", ""),
		SessionTTL: time.Duration(getEnvInt("SESSION_TTL_MINUTES", 720)) * time.Minute,
	}
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
