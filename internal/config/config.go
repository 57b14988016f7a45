package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ServerPort string
	ServerHost string

	TokenTTLMinutes          int
	TokenCleanupIntervalMins int

	JWTSecret string

	APIRateLimitRequests   int
	APIRateLimitWindowMins int
	APICORSOrigins         []string

	LogLevel string

	DebugMode bool
}

func Load() (*Config, error) {
	godotenv.Load("config.env")

	cfg := &Config{
		DBHost:     getEnvString("DB_HOST", "localhost"),
		DBPort:     getEnvInt("DB_PORT", 5432),
		DBName:     getEnvString("DB_NAME", "treasure_hunt_db"),
		DBUser:     getEnvString("DB_USER", "postgres"),
		DBPassword: getEnvString("DB_PASSWORD", ""),
		DBSSLMode:  getEnvString("DB_SSL_MODE", "disable"),

		ServerPort: getEnvString("SERVER_PORT", "8080"),
		ServerHost: getEnvString("SERVER_HOST", "localhost"),

		TokenTTLMinutes:          getEnvInt("TOKEN_TTL_MINUTES", 15),
		TokenCleanupIntervalMins: getEnvInt("TOKEN_CLEANUP_INTERVAL_MINUTES", 60),

		JWTSecret: getEnvString("JWT_SECRET", ""),

		APIRateLimitRequests:   getEnvInt("API_RATE_LIMIT_REQUESTS", 60),
		APIRateLimitWindowMins: getEnvInt("API_RATE_LIMIT_WINDOW_MINUTES", 1),
		APICORSOrigins:         getEnvStringSlice("API_CORS_ORIGINS", []string{"*"}),

		LogLevel: getEnvString("LOG_LEVEL", "info"),

		DebugMode: getEnvBool("DEBUG_MODE", false),
	}

	return cfg, nil
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

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
