package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/ventilia/nuclear-donor-bot/internal/db"
	"github.com/ventilia/nuclear-donor-bot/internal/events"
	"github.com/ventilia/nuclear-donor-bot/internal/models"
)

// IsAdmin reports whether a chat id has moderation rights.
func IsAdmin(chatID int64) bool {
	var n int64
	db.Conn().Model(&models.Admin{}).Where("chat_id = ?", chatID).Count(&n)
	return n > 0
}

// AddAdmin grants moderation rights. Adding an existing admin is a no-op.
func AddAdmin(chatID int64) error {
	return db.Conn().
		Where(models.Admin{ChatID: chatID}).
		FirstOrCreate(&models.Admin{ChatID: chatID}).Error
}

// AdminChatIDs lists every admin chat for question notifications.
func AdminChatIDs() ([]int64, error) {
	var ids []int64
	err := db.Conn().Model(&models.Admin{}).Pluck("chat_id", &ids).Error
	return ids, err
}

// Stats is the project-wide counter set shown to admins.
type Stats struct {
	ApprovedUsers int64
	Events        int64
	Registrations int64
}

// AdminStats collects the headline numbers.
func AdminStats() (Stats, error) {
	var s Stats
	if err := db.Conn().Model(&models.User{}).
		Where("profile_status = ?", models.ProfileApproved).
		Count(&s.ApprovedUsers).Error; err != nil {
		return s, err
	}
	if err := db.Conn().Model(&models.Event{}).Count(&s.Events).Error; err != nil {
		return s, err
	}
	err := db.Conn().Model(&models.Registration{}).
		Where("status = ?", models.RegStatusRegistered).
		Count(&s.Registrations).Error
	return s, err
}

// CreateEvent stores a new donation session and fires the announcement hook.
// Capacity must be positive; the date must already be validated by the form.
func CreateEvent(date, timeOfDay, location, description string, capacity int) (*models.Event, error) {
	if capacity <= 0 {
		return nil, errors.New("capacity must be positive")
	}
	ev := models.Event{
		Date:        date,
		Time:        timeOfDay,
		Location:    location,
		Description: description,
		Capacity:    capacity,
		Status:      models.EventActive,
	}
	if err := db.Conn().Create(&ev).Error; err != nil {
		return nil, err
	}
	if events.OnEventCreated != nil {
		events.OnEventCreated(ev)
	}
	return &ev, nil
}

// ToggleEventStatus flips an event between active and frozen and returns the
// new status.
func ToggleEventStatus(eventID uint) (string, error) {
	var status string
	err := db.Conn().Transaction(func(tx *gorm.DB) error {
		var ev models.Event
		if err := tx.First(&ev, eventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}
		status = models.EventFrozen
		if ev.Status == models.EventFrozen {
			status = models.EventActive
		}
		return tx.Model(&ev).Update("status", status).Error
	})
	return status, err
}

// ConsentedChatIDs lists linked chats that accepted the privacy policy —
// the broadcast recipient set.
func ConsentedChatIDs() ([]int64, error) {
	var ids []int64
	err := db.Conn().Model(&models.User{}).
		Where("consent = ? AND chat_id IS NOT NULL", true).
		Pluck("chat_id", &ids).Error
	return ids, err
}
