package services

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ventilia/nuclear-donor-bot/internal/db"
	"github.com/ventilia/nuclear-donor-bot/internal/models"
)

var (
	ErrEventNotFound        = errors.New("event not found")
	ErrEventFull            = errors.New("event is full")
	ErrEventFrozen          = errors.New("event is frozen")
	ErrInvalidEventDate     = errors.New("event has an unparseable date")
	ErrAlreadyRegistered    = errors.New("already registered for this event")
	ErrRegistrationNotFound = errors.New("registration not found")
)

// RegisterForEvent books a slot. The capacity count and the insert run in one
// transaction so two racing registrations cannot both pass the count check
// and overshoot capacity. The reminder (event date − 1 day) is created in the
// same transaction; a registration without its reminder is never observable.
func RegisterForEvent(userID, eventID uint) (*models.Registration, error) {
	var reg models.Registration
	err := db.Conn().Transaction(func(tx *gorm.DB) error {
		var ev models.Event
		if err := tx.First(&ev, eventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}
		if ev.Status == models.EventFrozen {
			return ErrEventFrozen
		}
		date, err := ev.DateAsTime()
		if err != nil {
			return ErrInvalidEventDate
		}

		var dup int64
		if err := tx.Model(&models.Registration{}).
			Where("user_id = ? AND event_id = ? AND status = ?",
				userID, eventID, models.RegStatusRegistered).
			Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			return ErrAlreadyRegistered
		}

		var registered int64
		if err := tx.Model(&models.Registration{}).
			Where("event_id = ? AND status = ?", eventID, models.RegStatusRegistered).
			Count(&registered).Error; err != nil {
			return err
		}
		if registered >= int64(ev.Capacity) {
			return ErrEventFull
		}

		code := generateRegCode(tx)
		if code == "" {
			return errors.New("failed to generate registration code")
		}
		reg = models.Registration{
			UserID:  userID,
			EventID: eventID,
			Status:  models.RegStatusRegistered,
			Code:    code,
		}
		if err := tx.Create(&reg).Error; err != nil {
			return err
		}

		reminder := models.Reminder{
			UserID:  userID,
			EventID: eventID,
			Date:    date.AddDate(0, 0, -1).Format(models.DateLayout),
		}
		return tx.Create(&reminder).Error
	})
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// CancelRegistration flips the registration to cancelled and drops its
// pending reminder. Returns the registration id so the caller can prompt
// for a cancellation reason.
func CancelRegistration(userID, eventID uint) (uint, error) {
	var regID uint
	err := db.Conn().Transaction(func(tx *gorm.DB) error {
		var reg models.Registration
		err := tx.Where("user_id = ? AND event_id = ? AND status = ?",
			userID, eventID, models.RegStatusRegistered).First(&reg).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRegistrationNotFound
		}
		if err != nil {
			return err
		}
		reg.Status = models.RegStatusCancelled
		if err := tx.Save(&reg).Error; err != nil {
			return err
		}
		regID = reg.ID
		return tx.Where("user_id = ? AND event_id = ?", userID, eventID).
			Delete(&models.Reminder{}).Error
	})
	return regID, err
}

// RecordNonAttendanceReason stores one reason per registration. Re-submitting
// overwrites the previous reason instead of piling up rows.
func RecordNonAttendanceReason(registrationID uint, reason string) error {
	row := models.NonAttendanceReason{RegistrationID: registrationID, Reason: reason}
	return db.Conn().Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "registration_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"reason"}),
	}).Create(&row).Error
}

// ActiveEvents lists events open for registration.
func ActiveEvents() ([]models.Event, error) {
	var evs []models.Event
	err := db.Conn().Where("status = ?", models.EventActive).
		Order("date asc").Find(&evs).Error
	return evs, err
}

// AllEvents lists every event, newest first, for the admin overview.
func AllEvents() ([]models.Event, error) {
	var evs []models.Event
	err := db.Conn().Order("date desc").Find(&evs).Error
	return evs, err
}

// UserRegistrationRow is one row of the "my registrations" view.
type UserRegistrationRow struct {
	EventID     uint
	Date        string
	Time        string
	Description string
	Code        string
}

// UserRegistrations lists the user's current (registered) event bookings.
func UserRegistrations(userID uint) ([]UserRegistrationRow, error) {
	var rows []UserRegistrationRow
	err := db.Conn().Table("registrations r").
		Select("e.id as event_id, e.date, e.time, e.description, r.code").
		Joins("JOIN events e ON e.id = r.event_id").
		Where("r.user_id = ? AND r.status = ?", userID, models.RegStatusRegistered).
		Order("e.date asc").
		Scan(&rows).Error
	return rows, err
}

// RegisteredCount counts live registrations for an event.
func RegisteredCount(eventID uint) (int64, error) {
	var n int64
	err := db.Conn().Model(&models.Registration{}).
		Where("event_id = ? AND status = ?", eventID, models.RegStatusRegistered).
		Count(&n).Error
	return n, err
}

// RegistrationByCode resolves a check-in code.
func RegistrationByCode(code string) (*models.Registration, error) {
	var reg models.Registration
	err := db.Conn().Where("code = ?", code).First(&reg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRegistrationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// generateRegCode creates a unique REG-xxxxxx code within the transaction.
func generateRegCode(tx *gorm.DB) string {
	for i := 0; i < 20; i++ {
		code := fmt.Sprintf("REG-%06d", rand.Intn(1000000))
		var exists int64
		_ = tx.Model(&models.Registration{}).Where("code = ?", code).Count(&exists).Error
		if exists == 0 {
			return code
		}
	}
	return ""
}

func init() { rand.Seed(time.Now().UnixNano()) }
