package services

import (
	"errors"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/ventilia/nuclear-donor-bot/internal/db"
	"github.com/ventilia/nuclear-donor-bot/internal/models"
)

var ErrRowSkipped = errors.New("row skipped")

var studentGroupRE = regexp.MustCompile(`^[А-Я]\d{2}-\d{3}$`)

// CategoryFromGroupHint infers the donor category from the free-text group
// column of the statistics sheet.
func CategoryFromGroupHint(hint string) string {
	h := strings.ToLower(strings.TrimSpace(hint))
	if strings.Contains(h, "сотрудник") || strings.Contains(h, "инженер") {
		return models.CategoryEmployee
	}
	if studentGroupRE.MatchString(strings.TrimSpace(hint)) {
		return models.CategoryStudent
	}
	return models.CategoryExternal
}

// StatRow is one parsed spreadsheet row. Parsing the sheet itself is the
// transport's job; the core only consumes rows.
type StatRow struct {
	FullName      string
	GroupHint     string
	CountGavrilov int
	CountFMBA     int
	LastGavrilov  string // YYYY-MM-DD or empty
	LastFMBA      string
	Social        string
	Phone         string
}

// ImportUserRow upserts an approved profile from a statistics row and appends
// its donation history, all in one transaction. Rows without a name or phone
// return ErrRowSkipped; a phone held by a different name is a conflict, not a
// silent overwrite.
func ImportUserRow(row StatRow) error {
	fio := strings.TrimSpace(row.FullName)
	phone := NormPhone(row.Phone)
	if fio == "" || phone == "" {
		return ErrRowSkipped
	}

	return db.Conn().Transaction(func(tx *gorm.DB) error {
		var social *string
		if s := strings.TrimSpace(row.Social); s != "" {
			social = &s
		}

		var u models.User
		err := tx.Where("phone = ?", phone).First(&u).Error
		switch {
		case err == nil:
			if normName(u.FullName) != normName(fio) {
				return ErrDuplicatePhone
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			u = models.User{
				Phone:          &phone,
				FullName:       fio,
				Category:       CategoryFromGroupHint(row.GroupHint),
				GroupName:      strings.TrimSpace(row.GroupHint),
				SocialContacts: social,
				ProfileStatus:  models.ProfileApproved,
			}
			if u.Category != models.CategoryStudent {
				u.GroupName = ""
			}
			if err := tx.Create(&u).Error; err != nil {
				return err
			}
		default:
			return err
		}

		appendDonations := func(count int, date, center string) error {
			if date == "" {
				date = "unknown"
			}
			for i := 0; i < count; i++ {
				d := models.Donation{UserID: u.ID, Date: date, Center: center}
				if err := tx.Create(&d).Error; err != nil {
					return err
				}
			}
			return nil
		}
		if err := appendDonations(row.CountGavrilov, row.LastGavrilov, models.CenterGavrilov); err != nil {
			return err
		}
		return appendDonations(row.CountFMBA, row.LastFMBA, models.CenterFMBA)
	})
}

// RecordDonation appends one donation for a user matched by full name and,
// when joined is set, flags the bone-marrow registry membership. Used by the
// per-event statistics upload.
func RecordDonation(fullName, date, center string, joinedMarrow bool) error {
	return db.Conn().Transaction(func(tx *gorm.DB) error {
		var u models.User
		err := tx.Where("full_name = ?", strings.TrimSpace(fullName)).First(&u).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProfileNotFound
		}
		if err != nil {
			return err
		}
		d := models.Donation{UserID: u.ID, Date: date, Center: center}
		if err := tx.Create(&d).Error; err != nil {
			return err
		}
		if joinedMarrow && !u.MarrowRegistry {
			return tx.Model(&u).Update("marrow_registry", true).Error
		}
		return nil
	})
}

// ExportRow is one row of the statistics export, ready for sheet rendering.
type ExportRow struct {
	UserID        uint
	FullName      string
	GroupName     string
	CountGavrilov int64
	CountFMBA     int64
	Total         int64
	LastGavrilov  string
	LastFMBA      string
	Phone         string
}

// ExportRows assembles the per-user donation statistics in two queries
// instead of re-querying per user.
func ExportRows() ([]ExportRow, error) {
	var users []models.User
	if err := db.Conn().Order("id asc").Find(&users).Error; err != nil {
		return nil, err
	}

	type agg struct {
		UserID uint
		Center string
		Cnt    int64
		Last   string
	}
	var aggs []agg
	if err := db.Conn().Model(&models.Donation{}).
		Select("user_id, center, COUNT(*) as cnt, MAX(date) as last").
		Group("user_id, center").
		Scan(&aggs).Error; err != nil {
		return nil, err
	}
	byUser := make(map[uint]map[string]agg, len(aggs))
	for _, a := range aggs {
		if byUser[a.UserID] == nil {
			byUser[a.UserID] = make(map[string]agg, 2)
		}
		byUser[a.UserID][a.Center] = a
	}

	rows := make([]ExportRow, 0, len(users))
	for _, u := range users {
		g := byUser[u.ID][models.CenterGavrilov]
		f := byUser[u.ID][models.CenterFMBA]
		phone := ""
		if u.Phone != nil {
			phone = *u.Phone
		}
		rows = append(rows, ExportRow{
			UserID:        u.ID,
			FullName:      u.FullName,
			GroupName:     u.GroupName,
			CountGavrilov: g.Cnt,
			CountFMBA:     f.Cnt,
			Total:         g.Cnt + f.Cnt,
			LastGavrilov:  g.Last,
			LastFMBA:      f.Last,
			Phone:         phone,
		})
	}
	return rows, nil
}

// ReplaceAllUsers wipes the users table together with everything keyed to
// user ids and installs the given rows. Restored users get fresh ids, so a
// surviving registration or donation would re-attach to the wrong person;
// the dependents go in the same transaction. This is the restore-from-backup
// path; callers must put a two-step confirmation in front of it.
func ReplaceAllUsers(users []models.User) error {
	return db.Conn().Transaction(func(tx *gorm.DB) error {
		for _, m := range []any{
			&models.NonAttendanceReason{}, &models.Registration{},
			&models.Reminder{}, &models.Donation{}, &models.Question{},
			&models.User{},
		} {
			if err := tx.Where("1 = 1").Delete(m).Error; err != nil {
				return err
			}
		}
		for i := range users {
			if err := tx.Create(&users[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DonationCount counts a user's donations at one center.
func DonationCount(userID uint, center string) (int64, error) {
	var n int64
	err := db.Conn().Model(&models.Donation{}).
		Where("user_id = ? AND center = ?", userID, center).
		Count(&n).Error
	return n, err
}

// LastDonation returns the most recent donation, or nil without one.
func LastDonation(userID uint) (*models.Donation, error) {
	var d models.Donation
	err := db.Conn().Where("user_id = ?", userID).
		Order("date desc").First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// DonationHistory lists a user's donations, newest first.
func DonationHistory(userID uint) ([]models.Donation, error) {
	var ds []models.Donation
	err := db.Conn().Where("user_id = ?", userID).
		Order("date desc").Find(&ds).Error
	return ds, err
}
