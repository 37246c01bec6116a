package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds all runtime settings for the bridge. Values come from the
// environment (a .env file is loaded by the CLI before this runs).
type Config struct {
	Port          string // HTTP listen port for the webhook server
	WebhookSecret string // Shared secret for Linear signature verification; empty disables it
	TargetLabel   string // Issue label that triggers calendar event creation

	GoogleClientID     string
	GoogleClientSecret string
	CredentialsPath    string // Fallback credentials.json when client id/secret env vars are unset
	TokenPath          string // Where the OAuth token is persisted
	CalendarID         string // Target Google Calendar, "primary" by default
	Timezone           string // IANA timezone for created events

	ICSExportDir string // Optional directory for .ics copies of created events; empty disables
	LogLevel     string
}

// Load reads configuration from the environment, applying defaults.
func Load() *Config {
	return &Config{
		Port:               getenv("PORT", "3000"),
		WebhookSecret:      os.Getenv("LINEAR_WEBHOOK_SECRET"),
		TargetLabel:        getenv("LINEAR_LABEL_NAME", "calendar"),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		CredentialsPath:    getenv("GOOGLE_CREDENTIALS_PATH", "credentials.json"),
		TokenPath:          getenv("GOOGLE_TOKEN_PATH", "token.json"),
		CalendarID:         getenv("GOOGLE_CALENDAR_ID", "primary"),
		Timezone:           getenv("CALENDAR_TIMEZONE", "America/Chicago"),
		ICSExportDir:       os.Getenv("ICS_EXPORT_DIR"),
		LogLevel:           getenv("LOG_LEVEL", "info"),
	}
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone '%s': %w", c.Timezone, err)
	}
	return loc, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
