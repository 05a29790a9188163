package services

import (
	"errors"
	"testing"

	"github.com/ventilia/nuclear-donor-bot/internal/db"
	"github.com/ventilia/nuclear-donor-bot/internal/models"
)

func TestCategoryFromGroupHint(t *testing.T) {
	cases := []struct {
		hint string
		want string
	}{
		{"Б21-302", models.CategoryStudent},
		{"С20-111", models.CategoryStudent},
		{"сотрудник", models.CategoryEmployee},
		{"Инженер отдела", models.CategoryEmployee},
		{"", models.CategoryExternal},
		{"гость", models.CategoryExternal},
		{"B21-302", models.CategoryExternal}, // Latin letter, not a group
	}
	for _, c := range cases {
		if got := CategoryFromGroupHint(c.hint); got != c.want {
			t.Errorf("CategoryFromGroupHint(%q) = %s, want %s", c.hint, got, c.want)
		}
	}
}

// TestImportUserRow_CreatesApproved: imported donors skip moderation and
// carry their per-center donation history.
func TestImportUserRow_CreatesApproved(t *testing.T) {
	initTestDB(t)

	err := ImportUserRow(StatRow{
		FullName:      "Иванов Иван",
		GroupHint:     "Б21-302",
		CountGavrilov: 2,
		LastGavrilov:  "2026-05-10",
		CountFMBA:     1,
		Phone:         "89001234567",
	})
	if err != nil {
		t.Fatalf("ImportUserRow: %v", err)
	}

	u, err := LookupByPhone("+79001234567")
	if err != nil {
		t.Fatalf("imported user missing: %v", err)
	}
	if u.ProfileStatus != models.ProfileApproved {
		t.Errorf("status: want approved, got %s", u.ProfileStatus)
	}
	if u.Category != models.CategoryStudent || u.GroupName != "Б21-302" {
		t.Errorf("category/group: got %s/%s", u.Category, u.GroupName)
	}

	g, _ := DonationCount(u.ID, models.CenterGavrilov)
	f, _ := DonationCount(u.ID, models.CenterFMBA)
	if g != 2 || f != 1 {
		t.Errorf("donation counts: got %d/%d, want 2/1", g, f)
	}

	// FMBA rows had no date and fall back to the sentinel.
	var d models.Donation
	db.Conn().Where("user_id = ? AND center = ?", u.ID, models.CenterFMBA).First(&d)
	if d.Date != "unknown" {
		t.Errorf("undated donation: want \"unknown\", got %q", d.Date)
	}
}

func TestImportUserRow_SkipsIncomplete(t *testing.T) {
	initTestDB(t)

	if err := ImportUserRow(StatRow{FullName: "", Phone: "+79001234567"}); !errors.Is(err, ErrRowSkipped) {
		t.Errorf("missing name: want ErrRowSkipped, got %v", err)
	}
	if err := ImportUserRow(StatRow{FullName: "Иванов Иван", Phone: ""}); !errors.Is(err, ErrRowSkipped) {
		t.Errorf("missing phone: want ErrRowSkipped, got %v", err)
	}
}

// TestImportUserRow_PhoneConflict: the same phone under a different name is
// reported, never silently overwritten.
func TestImportUserRow_PhoneConflict(t *testing.T) {
	initTestDB(t)
	createUser(t, 1, "Иванов Иван") // phone +79000000001

	err := ImportUserRow(StatRow{
		FullName: "Петров Пётр",
		Phone:    "+79000000001",
	})
	if !errors.Is(err, ErrDuplicatePhone) {
		t.Errorf("want ErrDuplicatePhone, got %v", err)
	}

	var check models.User
	db.Conn().Where("phone = ?", "+79000000001").First(&check)
	if check.FullName != "Иванов Иван" {
		t.Errorf("existing row overwritten")
	}
}

// TestImportUserRow_AppendsToExisting: re-importing a known donor adds the
// new donations to the same row.
func TestImportUserRow_AppendsToExisting(t *testing.T) {
	initTestDB(t)
	u := createUser(t, 1, "Иванов Иван")

	err := ImportUserRow(StatRow{
		FullName:      "иванов иван", // matching ignores case
		Phone:         *u.Phone,
		CountGavrilov: 1,
		LastGavrilov:  "2026-06-01",
	})
	if err != nil {
		t.Fatalf("ImportUserRow: %v", err)
	}

	var users int64
	db.Conn().Model(&models.User{}).Count(&users)
	if users != 1 {
		t.Errorf("user rows: want 1, got %d", users)
	}
	g, _ := DonationCount(u.ID, models.CenterGavrilov)
	if g != 1 {
		t.Errorf("donations: want 1, got %d", g)
	}
}

// TestRecordDonation_SetsMarrowFlag credits a donation by name and flips the
// registry flag once.
func TestRecordDonation_SetsMarrowFlag(t *testing.T) {
	initTestDB(t)
	u := createUser(t, 1, "Иванов Иван")

	if err := RecordDonation("Иванов Иван", "2026-08-20", models.CenterGavrilov, true); err != nil {
		t.Fatalf("RecordDonation: %v", err)
	}
	var check models.User
	db.Conn().First(&check, u.ID)
	if !check.MarrowRegistry {
		t.Errorf("marrow flag not set")
	}

	if err := RecordDonation("Неизвестный Донор", "2026-08-20", models.CenterFMBA, false); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("unknown name: want ErrProfileNotFound, got %v", err)
	}
}

// TestExportRows aggregates per-center counts and latest dates in one pass.
func TestExportRows(t *testing.T) {
	initTestDB(t)
	u := createUser(t, 1, "Иванов Иван")
	for _, d := range []models.Donation{
		{UserID: u.ID, Date: "2026-01-10", Center: models.CenterGavrilov},
		{UserID: u.ID, Date: "2026-03-15", Center: models.CenterGavrilov},
		{UserID: u.ID, Date: "2026-02-20", Center: models.CenterFMBA},
	} {
		db.Conn().Create(&d)
	}
	createUser(t, 2, "Пустой Донор")

	rows, err := ExportRows()
	if err != nil {
		t.Fatalf("ExportRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows: want 2, got %d", len(rows))
	}

	r := rows[0]
	if r.CountGavrilov != 2 || r.CountFMBA != 1 || r.Total != 3 {
		t.Errorf("counts: got %d/%d/%d, want 2/1/3", r.CountGavrilov, r.CountFMBA, r.Total)
	}
	if r.LastGavrilov != "2026-03-15" {
		t.Errorf("last Gavrilov date: want 2026-03-15, got %s", r.LastGavrilov)
	}

	empty := rows[1]
	if empty.Total != 0 {
		t.Errorf("donorless user total: want 0, got %d", empty.Total)
	}
}

// TestReplaceAllUsers wipes the table and installs the snapshot.
func TestReplaceAllUsers(t *testing.T) {
	initTestDB(t)
	createUser(t, 1, "Старый Донор")
	createUser(t, 2, "Ещё Один")

	phone := "+79005554433"
	err := ReplaceAllUsers([]models.User{
		{FullName: "Новый Донор", Phone: &phone, Category: models.CategoryExternal,
			ProfileStatus: models.ProfileApproved},
	})
	if err != nil {
		t.Fatalf("ReplaceAllUsers: %v", err)
	}

	users, err := AllUsers()
	if err != nil {
		t.Fatalf("AllUsers: %v", err)
	}
	if len(users) != 1 || users[0].FullName != "Новый Донор" {
		t.Errorf("restore result: got %d rows", len(users))
	}
}

// TestReplaceAllUsers_ClearsDependents: restored users get fresh ids, so
// rows keyed to the old ids must not survive and silently re-attach to the
// wrong people.
func TestReplaceAllUsers_ClearsDependents(t *testing.T) {
	initTestDB(t)
	u := createUser(t, 1, "Старый Донор")
	ev := createEvent(t, futureDate(3), 5, models.EventActive)
	reg, err := RegisterForEvent(u.ID, ev.ID)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := RecordNonAttendanceReason(reg.ID, "Медотвод"); err != nil {
		t.Fatalf("reason: %v", err)
	}
	db.Conn().Create(&models.Donation{UserID: u.ID, Date: "2026-01-10", Center: models.CenterFMBA})
	db.Conn().Create(&models.Question{UserID: u.ID, Text: "Где проходит?"})

	phone := "+79005554433"
	if err := ReplaceAllUsers([]models.User{
		{FullName: "Новый Донор", Phone: &phone, Category: models.CategoryExternal,
			ProfileStatus: models.ProfileApproved},
	}); err != nil {
		t.Fatalf("ReplaceAllUsers: %v", err)
	}

	for _, m := range []any{
		&models.Registration{}, &models.Reminder{}, &models.Donation{},
		&models.Question{}, &models.NonAttendanceReason{},
	} {
		var n int64
		db.Conn().Model(m).Count(&n)
		if n != 0 {
			t.Errorf("%T rows after restore: want 0, got %d", m, n)
		}
	}
}

func TestDonationHistoryOrder(t *testing.T) {
	initTestDB(t)
	u := createUser(t, 1, "Иванов Иван")
	for _, date := range []string{"2026-01-10", "2026-03-15", "2026-02-20"} {
		db.Conn().Create(&models.Donation{UserID: u.ID, Date: date, Center: models.CenterFMBA})
	}

	hist, err := DonationHistory(u.ID)
	if err != nil {
		t.Fatalf("DonationHistory: %v", err)
	}
	if len(hist) != 3 || hist[0].Date != "2026-03-15" {
		t.Errorf("history not newest-first")
	}

	last, err := LastDonation(u.ID)
	if err != nil || last == nil || last.Date != "2026-03-15" {
		t.Errorf("LastDonation: got %+v, %v", last, err)
	}
}
