package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all application configuration
type Config struct {
	RecordsDir     string // root directory of prediction record files
	LogLevel       string
	HTTPAddr       string // listen address for the stats API
	RequestTimeout int    // seconds, per market API call
	RequestsPerSec int    // market API rate limit

	PolymarketBaseURL string
	KalshiBaseURL     string

	PGPKeyPath    string // armored private key for detached signatures; empty disables signing
	PGPPassphrase string

	TelegramBotToken string // empty disables resolution announcements
	TelegramChatID   int64

	DBHost     string // empty disables the Postgres resolution audit log
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
}

// Load initializes configuration from environment variables
func Load() (*Config, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	var cfg Config

	cfg.RecordsDir = getEnvWithDefault("RECORDS_DIR", "predictions")
	cfg.LogLevel = getEnvWithDefault("LOG_LEVEL", "info")
	cfg.HTTPAddr = getEnvWithDefault("HTTP_ADDR", ":8080")
	cfg.RequestTimeout = getEnvIntWithDefault("REQUEST_TIMEOUT", 10)
	cfg.RequestsPerSec = getEnvIntWithDefault("REQUESTS_PER_SEC", 5)

	cfg.PolymarketBaseURL = getEnvWithDefault("POLYMARKET_BASE_URL", "https://gamma-api.polymarket.com")
	cfg.KalshiBaseURL = getEnvWithDefault("KALSHI_BASE_URL", "https://api.elections.kalshi.com/trade-api/v2")

	cfg.PGPKeyPath = os.Getenv("PGP_KEY_PATH")
	cfg.PGPPassphrase = os.Getenv("PGP_PASSPHRASE")

	cfg.TelegramBotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.TelegramChatID = getEnvInt64WithDefault("TELEGRAM_CHAT_ID", 0)

	cfg.DBHost = os.Getenv("DB_HOST")
	cfg.DBPort = getEnvWithDefault("DB_PORT", "5432")
	cfg.DBUser = os.Getenv("DB_USER")
	cfg.DBPassword = os.Getenv("DB_PASSWORD")
	cfg.DBName = getEnvWithDefault("DB_NAME", "predtrack")
	cfg.DBSSLMode = getEnvWithDefault("DB_SSLMODE", "disable")

	return &cfg, nil
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64WithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
