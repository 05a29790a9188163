package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/ventilia/nuclear-donor-bot/internal/db"
	"github.com/ventilia/nuclear-donor-bot/internal/models"
)

// AttendanceResult reports the reconciliation verdict for one registration.
type AttendanceResult struct {
	RegistrationID uint
	UserID         uint
	Attended       bool
}

// ReconcileAttendance walks the still-registered bookings of a past event.
// Users whose full name appears in attendedNames are marked attended and get
// a Donation row at the given center dated to the event; everyone else stays
// unattended and is reported for a non-attendance survey. Name matching is
// case-insensitive on the trimmed full name.
func ReconcileAttendance(eventID uint, attendedNames []string, center string) ([]AttendanceResult, error) {
	attended := make(map[string]bool, len(attendedNames))
	for _, n := range attendedNames {
		attended[normName(n)] = true
	}

	var results []AttendanceResult
	err := db.Conn().Transaction(func(tx *gorm.DB) error {
		var ev models.Event
		if err := tx.First(&ev, eventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		var regs []models.Registration
		if err := tx.Where("event_id = ? AND status = ?",
			eventID, models.RegStatusRegistered).Find(&regs).Error; err != nil {
			return err
		}

		for i := range regs {
			var u models.User
			if err := tx.First(&u, regs[i].UserID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue // kicked since registering
				}
				return err
			}
			came := attended[normName(u.FullName)]
			if came && !regs[i].Attended {
				regs[i].Attended = true
				if err := tx.Save(&regs[i]).Error; err != nil {
					return err
				}
				donation := models.Donation{
					UserID: u.ID,
					Date:   ev.Date,
					Center: center,
				}
				if err := tx.Create(&donation).Error; err != nil {
					return err
				}
			}
			results = append(results, AttendanceResult{
				RegistrationID: regs[i].ID,
				UserID:         u.ID,
				Attended:       came,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// AttendedCount counts reconciled attendances for an event.
func AttendedCount(eventID uint) (int64, error) {
	var n int64
	err := db.Conn().Model(&models.Registration{}).
		Where("event_id = ? AND attended = ?", eventID, true).
		Count(&n).Error
	return n, err
}

func normName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
