package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// DefaultJWTSecret is the development fallback for JWT_SECRET. Token
// issuance in internal/auth falls back to the same value, so tokens verify
// out of the box without any environment configured.
const DefaultJWTSecret = "supersecretkey"

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	ServerPort string
	JWTSecret  string

	// Realtime relay. Publishing is disabled when either RelayURL or
	// RelaySecret is empty.
	RelayURL    string
	RelaySecret string
	RelayPort   string

	// Optional. Rate limiting is skipped when empty.
	RedisAddr     string
	RedisPassword string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using system environment variables")
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "noteboard_user"),
		DBPassword: getEnv("DB_PASSWORD", "noteboard_pass"),
		DBName:     getEnv("DB_NAME", "noteboard_db"),
		ServerPort: getEnv("SERVER_PORT", "8080"),
		JWTSecret:  getEnv("JWT_SECRET", DefaultJWTSecret),

		RelayURL:    getEnv("RELAY_URL", ""),
		RelaySecret: getEnv("RELAY_SECRET", ""),
		RelayPort:   getEnv("RELAY_PORT", "4001"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
