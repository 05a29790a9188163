package services

import (
	"testing"

	"github.com/ventilia/nuclear-donor-bot/internal/db"
	"github.com/ventilia/nuclear-donor-bot/internal/models"
)

// TestReconcileAttendance marks name-matched donors attended, credits a
// donation dated to the event, and reports the no-shows.
func TestReconcileAttendance(t *testing.T) {
	initTestDB(t)
	ev := createEvent(t, "2026-08-20", 10, models.EventActive)
	came := createUser(t, 1, "Иванов Иван")
	noShow := createUser(t, 2, "Петров Пётр")
	if _, err := RegisterForEvent(came.ID, ev.ID); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := RegisterForEvent(noShow.ID, ev.ID); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Sheet name differs in case and spacing; matching must still hit.
	results, err := ReconcileAttendance(ev.ID, []string{"  иванов   ИВАН "}, models.CenterGavrilov)
	if err != nil {
		t.Fatalf("ReconcileAttendance: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results: want 2, got %d", len(results))
	}

	byUser := make(map[uint]bool, 2)
	for _, r := range results {
		byUser[r.UserID] = r.Attended
	}
	if !byUser[came.ID] {
		t.Errorf("attendee not marked attended")
	}
	if byUser[noShow.ID] {
		t.Errorf("no-show marked attended")
	}

	var d models.Donation
	if err := db.Conn().Where("user_id = ?", came.ID).First(&d).Error; err != nil {
		t.Fatalf("donation missing: %v", err)
	}
	if d.Date != ev.Date || d.Center != models.CenterGavrilov {
		t.Errorf("donation: got %s/%s, want %s/%s", d.Date, d.Center, ev.Date, models.CenterGavrilov)
	}

	var n int64
	db.Conn().Model(&models.Donation{}).Where("user_id = ?", noShow.ID).Count(&n)
	if n != 0 {
		t.Errorf("no-show credited a donation")
	}
}

// TestReconcileAttendance_Idempotent re-runs the same sheet and expects no
// duplicate donation rows.
func TestReconcileAttendance_Idempotent(t *testing.T) {
	initTestDB(t)
	ev := createEvent(t, "2026-08-20", 10, models.EventActive)
	u := createUser(t, 1, "Иванов Иван")
	if _, err := RegisterForEvent(u.ID, ev.ID); err != nil {
		t.Fatalf("register: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := ReconcileAttendance(ev.ID, []string{"Иванов Иван"}, models.CenterFMBA); err != nil {
			t.Fatalf("run %d: %v", i+1, err)
		}
	}

	var n int64
	db.Conn().Model(&models.Donation{}).Where("user_id = ?", u.ID).Count(&n)
	if n != 1 {
		t.Errorf("donations after re-run: want 1, got %d", n)
	}
	attended, _ := AttendedCount(ev.ID)
	if attended != 1 {
		t.Errorf("attended count: want 1, got %d", attended)
	}
}

// TestReconcileAttendance_SkipsCancelled: cancelled bookings stay out of the
// reconciliation entirely.
func TestReconcileAttendance_SkipsCancelled(t *testing.T) {
	initTestDB(t)
	ev := createEvent(t, "2026-08-20", 10, models.EventActive)
	u := createUser(t, 1, "Иванов Иван")
	if _, err := RegisterForEvent(u.ID, ev.ID); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := CancelRegistration(u.ID, ev.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	results, err := ReconcileAttendance(ev.ID, []string{"Иванов Иван"}, models.CenterFMBA)
	if err != nil {
		t.Fatalf("ReconcileAttendance: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("results for cancelled booking: want 0, got %d", len(results))
	}
}
