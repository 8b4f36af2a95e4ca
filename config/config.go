package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	Environment    string
	AllowedOrigins []string
	JWTSecret      string
	Redis          RedisConfig
	Relay          RelayLimits
}

// RedisConfig configures the optional Redis-backed user store.
// An empty Addr selects the in-memory store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RelayLimits are the capacity and validation caps enforced by the
// signaling relay. Fixed at startup, not runtime-tunable.
type RelayLimits struct {
	MaxParticipantsPerRoom int
	MaxRooms               int
	MaxMessageLength       int
	MaxMessagesPerRoom     int
}

func Load() *Config {
	// .env is optional; real environment variables take precedence
	_ = godotenv.Load()

	// Parse allowed origins (comma-separated)
	originsStr := getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")
	origins := strings.Split(originsStr, ",")

	return &Config{
		Port:           getEnv("PORT", "8080"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		AllowedOrigins: origins,
		JWTSecret:      getEnv("JWT_SECRET", "change-me-in-production"),
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       0,
		},
		Relay: RelayLimits{
			MaxParticipantsPerRoom: getEnvInt("MAX_PARTICIPANTS_PER_ROOM", 50),
			MaxRooms:               getEnvInt("MAX_ROOMS", 1000),
			MaxMessageLength:       getEnvInt("MAX_MESSAGE_LENGTH", 500),
			MaxMessagesPerRoom:     getEnvInt("MAX_MESSAGES_PER_ROOM", 1000),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
