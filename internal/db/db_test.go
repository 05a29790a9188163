package db_test

import (
	"path/filepath"
	"testing"

	"github.com/ventilia/nuclear-donor-bot/internal/db"
	"github.com/ventilia/nuclear-donor-bot/internal/models"
)

// TestWALMode verifies the DSN parameters in db.go enable WAL journal mode.
// WAL is the key SQLite setting for concurrent reads + single-writer throughput.
func TestWALMode(t *testing.T) {
	if err := db.Init(filepath.Join(t.TempDir(), "wal_test.db"), nil); err != nil {
		t.Fatalf("Init: %v", err)
	}

	var mode string
	db.Conn().Raw("PRAGMA journal_mode").Scan(&mode)
	if mode != "wal" {
		t.Errorf("expected journal_mode=wal, got %q", mode)
	}
}

// TestInit_CreatesRegistrationIndex verifies Init() creates the composite
// index backing the capacity count.
func TestInit_CreatesRegistrationIndex(t *testing.T) {
	if err := db.Init(filepath.Join(t.TempDir(), "idx_test.db"), nil); err != nil {
		t.Fatalf("Init: %v", err)
	}

	var n int64
	db.Conn().Raw(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name = 'idx_reg_event_status'",
	).Scan(&n)
	if n != 1 {
		t.Errorf("index idx_reg_event_status missing")
	}
}

// TestInit_SeedsAdminsOnce verifies the admins table is seeded only when
// empty: re-running Init with a different seed list must not add rows.
func TestInit_SeedsAdminsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed_test.db")

	if err := db.Init(path, []int64{100, 200}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	var count int64
	db.Conn().Model(&models.Admin{}).Count(&count)
	if count != 2 {
		t.Fatalf("seeded admins: want 2, got %d", count)
	}

	if err := db.Init(path, []int64{300}); err != nil {
		t.Fatalf("re-Init: %v", err)
	}
	db.Conn().Model(&models.Admin{}).Count(&count)
	if count != 2 {
		t.Errorf("admins after re-Init: want 2 (no reseed), got %d", count)
	}

	var extra int64
	db.Conn().Model(&models.Admin{}).Where("chat_id = ?", 300).Count(&extra)
	if extra != 0 {
		t.Errorf("seed applied to a non-empty admins table")
	}
}
