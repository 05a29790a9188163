package scheduler

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ventilia/nuclear-donor-bot/internal/db"
	"github.com/ventilia/nuclear-donor-bot/internal/models"
)

type fakeNotifier struct {
	notes   []int64
	surveys []uint
	fail    bool
}

func (f *fakeNotifier) Notify(chatID int64, _ string) error {
	if f.fail {
		return fmt.Errorf("send failed")
	}
	f.notes = append(f.notes, chatID)
	return nil
}

func (f *fakeNotifier) SurveyNonAttendance(_ int64, registrationID uint) error {
	f.surveys = append(f.surveys, registrationID)
	return nil
}

func initTestDB(t *testing.T) {
	t.Helper()
	if err := db.Init(filepath.Join(t.TempDir(), "test.db"), nil); err != nil {
		t.Fatalf("db init: %v", err)
	}
}

func seedReminder(t *testing.T, chatID int64, date string) *models.Reminder {
	t.Helper()
	phone := fmt.Sprintf("+7999%07d", chatID)
	u := models.User{ChatID: &chatID, Phone: &phone, FullName: "Донор Тестовый",
		ProfileStatus: models.ProfileApproved}
	if err := db.Conn().Create(&u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	ev := models.Event{Date: date, Time: "10:00", Location: "Зал",
		Description: "День донора", Capacity: 10, Status: models.EventActive}
	if err := db.Conn().Create(&ev).Error; err != nil {
		t.Fatalf("seed event: %v", err)
	}
	rem := models.Reminder{UserID: u.ID, EventID: ev.ID, Date: date}
	if err := db.Conn().Create(&rem).Error; err != nil {
		t.Fatalf("seed reminder: %v", err)
	}
	return &rem
}

// TestSweepReminders_DispatchThenDelete sends a due reminder and removes the
// row; a future-dated reminder stays untouched.
func TestSweepReminders_DispatchThenDelete(t *testing.T) {
	initTestDB(t)
	now := time.Now()
	seedReminder(t, 1, now.Format(models.DateLayout))
	seedReminder(t, 2, now.AddDate(0, 0, 3).Format(models.DateLayout))

	n := &fakeNotifier{}
	s := New(n, zap.NewNop(), time.Minute, 12)
	s.SweepReminders(now)

	if len(n.notes) != 1 || n.notes[0] != 1 {
		t.Errorf("notified chats: got %v, want [1]", n.notes)
	}
	var left int64
	db.Conn().Model(&models.Reminder{}).Count(&left)
	if left != 1 {
		t.Errorf("reminders left: want 1 (the future one), got %d", left)
	}
}

// TestSweepReminders_KeepsRowOnSendFailure: a failed delivery leaves the row
// for the next sweep instead of dropping the reminder.
func TestSweepReminders_KeepsRowOnSendFailure(t *testing.T) {
	initTestDB(t)
	now := time.Now()
	seedReminder(t, 1, now.Format(models.DateLayout))

	n := &fakeNotifier{fail: true}
	s := New(n, zap.NewNop(), time.Minute, 12)
	s.SweepReminders(now)

	var left int64
	db.Conn().Model(&models.Reminder{}).Count(&left)
	if left != 1 {
		t.Errorf("reminder dropped after failed send")
	}

	n.fail = false
	s.SweepReminders(now)
	if len(n.notes) != 1 {
		t.Errorf("retry did not deliver")
	}
	db.Conn().Model(&models.Reminder{}).Count(&left)
	if left != 0 {
		t.Errorf("delivered reminder not deleted")
	}
}

// TestSweepSurveys polls the no-shows of a past event once per day, skipping
// users who already gave a reason.
func TestSweepSurveys(t *testing.T) {
	initTestDB(t)
	now := time.Now()
	yesterday := now.AddDate(0, 0, -1).Format(models.DateLayout)

	chatA, chatB := int64(1), int64(2)
	phoneA, phoneB := "+79990000001", "+79990000002"
	a := models.User{ChatID: &chatA, Phone: &phoneA, FullName: "Донор Первый"}
	b := models.User{ChatID: &chatB, Phone: &phoneB, FullName: "Донор Второй"}
	db.Conn().Create(&a)
	db.Conn().Create(&b)
	ev := models.Event{Date: yesterday, Time: "10:00", Capacity: 10, Status: models.EventActive}
	db.Conn().Create(&ev)

	regA := models.Registration{UserID: a.ID, EventID: ev.ID,
		Status: models.RegStatusRegistered, Code: "REG-000001"}
	regB := models.Registration{UserID: b.ID, EventID: ev.ID,
		Status: models.RegStatusRegistered, Code: "REG-000002"}
	db.Conn().Create(&regA)
	db.Conn().Create(&regB)
	// B already explained themselves.
	db.Conn().Create(&models.NonAttendanceReason{RegistrationID: regB.ID, Reason: "Медотвод"})

	n := &fakeNotifier{}
	s := New(n, zap.NewNop(), time.Minute, 0)
	s.SweepSurveys(now)

	if len(n.surveys) != 1 || n.surveys[0] != regA.ID {
		t.Errorf("surveyed registrations: got %v, want [%d]", n.surveys, regA.ID)
	}

	// Second sweep the same day is a no-op.
	s.SweepSurveys(now)
	if len(n.surveys) != 1 {
		t.Errorf("survey repeated within one day")
	}
}

// TestSweepSurveys_CatchesOlderPastEvents: an event whose day-after sweep
// fell into downtime is still surveyed on the next run; frozen past events
// are left alone.
func TestSweepSurveys_CatchesOlderPastEvents(t *testing.T) {
	initTestDB(t)
	now := time.Now()
	twoDaysAgo := now.AddDate(0, 0, -2).Format(models.DateLayout)

	chatA, chatB := int64(1), int64(2)
	phoneA, phoneB := "+79990000001", "+79990000002"
	a := models.User{ChatID: &chatA, Phone: &phoneA, FullName: "Донор Первый"}
	b := models.User{ChatID: &chatB, Phone: &phoneB, FullName: "Донор Второй"}
	db.Conn().Create(&a)
	db.Conn().Create(&b)

	past := models.Event{Date: twoDaysAgo, Time: "10:00", Capacity: 10, Status: models.EventActive}
	frozen := models.Event{Date: twoDaysAgo, Time: "12:00", Capacity: 10, Status: models.EventFrozen}
	db.Conn().Create(&past)
	db.Conn().Create(&frozen)

	regA := models.Registration{UserID: a.ID, EventID: past.ID,
		Status: models.RegStatusRegistered, Code: "REG-000001"}
	regB := models.Registration{UserID: b.ID, EventID: frozen.ID,
		Status: models.RegStatusRegistered, Code: "REG-000002"}
	db.Conn().Create(&regA)
	db.Conn().Create(&regB)

	n := &fakeNotifier{}
	s := New(n, zap.NewNop(), time.Minute, 0)
	s.SweepSurveys(now)

	if len(n.surveys) != 1 || n.surveys[0] != regA.ID {
		t.Errorf("surveyed registrations: got %v, want [%d]", n.surveys, regA.ID)
	}
}

// TestSweepSurveys_BeforeHour: nothing goes out before the configured hour.
func TestSweepSurveys_BeforeHour(t *testing.T) {
	initTestDB(t)
	n := &fakeNotifier{}
	s := New(n, zap.NewNop(), time.Minute, 23)

	morning := time.Date(2026, 8, 30, 8, 0, 0, 0, time.Local)
	s.SweepSurveys(morning)
	if len(n.surveys) != 0 {
		t.Errorf("survey sent before the configured hour")
	}
}
