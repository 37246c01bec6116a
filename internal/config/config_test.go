package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "LINEAR_WEBHOOK_SECRET", "LINEAR_LABEL_NAME",
		"GOOGLE_CALENDAR_ID", "CALENDAR_TIMEZONE", "GOOGLE_TOKEN_PATH",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "3000" {
		t.Errorf("Port = %q, want 3000", cfg.Port)
	}
	if cfg.TargetLabel != "calendar" {
		t.Errorf("TargetLabel = %q, want calendar", cfg.TargetLabel)
	}
	if cfg.CalendarID != "primary" {
		t.Errorf("CalendarID = %q, want primary", cfg.CalendarID)
	}
	if cfg.Timezone != "America/Chicago" {
		t.Errorf("Timezone = %q, want America/Chicago", cfg.Timezone)
	}
	if cfg.WebhookSecret != "" {
		t.Errorf("WebhookSecret = %q, want empty", cfg.WebhookSecret)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("LINEAR_LABEL_NAME", "meeting")
	t.Setenv("LINEAR_WEBHOOK_SECRET", "shhh")

	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.TargetLabel != "meeting" {
		t.Errorf("TargetLabel = %q, want meeting", cfg.TargetLabel)
	}
	if cfg.WebhookSecret != "shhh" {
		t.Errorf("WebhookSecret = %q, want shhh", cfg.WebhookSecret)
	}
}

func TestLocation(t *testing.T) {
	t.Setenv("CALENDAR_TIMEZONE", "UTC")
	loc, err := Load().Location()
	if err != nil {
		t.Fatal(err)
	}
	if loc.String() != "UTC" {
		t.Errorf("location = %v, want UTC", loc)
	}

	t.Setenv("CALENDAR_TIMEZONE", "Not/AZone")
	if _, err := Load().Location(); err == nil {
		t.Error("expected error for invalid timezone")
	}
}
