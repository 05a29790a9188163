package config

import (
	"testing"
	"time"
)

// TestLoad_Defaults checks the knobs fall back to the documented values:
// ten-minute reminder sweeps and a midnight survey hour.
func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{
		"BOT_TOKEN", "ADDR", "DB_PATH", "LOG_LEVEL",
		"REMINDER_INTERVAL", "SURVEY_HOUR", "SEED_ADMIN_IDS", "PUBLIC_BASE_URL",
	} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("Addr: got %q", cfg.Addr)
	}
	if cfg.DBPath != "donor.db" {
		t.Errorf("DBPath: got %q", cfg.DBPath)
	}
	if cfg.ReminderInterval != 10*time.Minute {
		t.Errorf("ReminderInterval: got %v, want 10m", cfg.ReminderInterval)
	}
	if cfg.SurveyHour != 0 {
		t.Errorf("SurveyHour: got %d, want 0", cfg.SurveyHour)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("REMINDER_INTERVAL", "30s")
	t.Setenv("SURVEY_HOUR", "9")
	t.Setenv("SEED_ADMIN_IDS", "1, 2,мусор,3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ReminderInterval != 30*time.Second {
		t.Errorf("ReminderInterval: got %v", cfg.ReminderInterval)
	}
	if cfg.SurveyHour != 9 {
		t.Errorf("SurveyHour: got %d", cfg.SurveyHour)
	}
	want := []int64{1, 2, 3}
	if len(cfg.SeedAdminIDs) != len(want) {
		t.Fatalf("SeedAdminIDs: got %v", cfg.SeedAdminIDs)
	}
	for i, id := range want {
		if cfg.SeedAdminIDs[i] != id {
			t.Errorf("SeedAdminIDs[%d]: got %d, want %d", i, cfg.SeedAdminIDs[i], id)
		}
	}
}
