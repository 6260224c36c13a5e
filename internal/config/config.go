package config

import (
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
// Every setting has a sensible default; only a broken value is fatal.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	getEnv := func(key, fallback string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		return fallback
	}

	getEnvInt := func(key string, fallback int) int {
		raw, ok := os.LookupEnv(key)
		if !ok {
			return fallback
		}
		value, err := strconv.Atoi(raw)
		if err != nil {
			log.Fatalf("Error: environment variable %s must be an integer, got %q", key, raw)
		}
		return value
	}

	cfg := Config{
		DBName:         getEnv("DB_NAME", "hiscores.db"),
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("APP_ENV", "development"),
		ScrapeInterval: time.Duration(getEnvInt("SCRAPE_INTERVAL_SECONDS", 900)) * time.Second,
		RetentionDays:  getEnvInt("RETENTION_DAYS", 30),
		Hiscores: HiscoresConfig{
			BaseURL: getEnv("HISCORES_BASE_URL", ""),
		},
		Slack: SlackConfig{
			Token:     getEnv("SLACK_BOT_TOKEN", ""),
			ChannelID: getEnv("SLACK_CHANNEL_ID", ""),
		},
		Turso: TursoConfig{
			PrimaryURL: getEnv("TURSO_PRIMARY_URL", ""),
			AuthToken:  getEnv("TURSO_AUTH_TOKEN", ""),
		},
	}
	return cfg
}
