package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	DBName         string
	Port           string
	Env            string
	ScrapeInterval time.Duration
	RetentionDays  int
	Hiscores       HiscoresConfig
	Slack          SlackConfig
	Turso          TursoConfig
}

type HiscoresConfig struct {
	BaseURL string
}

type SlackConfig struct {
	Token     string
	ChannelID string
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}
