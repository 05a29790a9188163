package services

import (
	"github.com/ventilia/nuclear-donor-bot/internal/db"
	"github.com/ventilia/nuclear-donor-bot/internal/models"
)

// ReminderDispatch is one due reminder joined with everything the sender
// needs. ChatID is 0 when the profile was unlinked after registering; such
// rows are deleted without sending.
type ReminderDispatch struct {
	ReminderID  uint
	ChatID      int64
	EventDate   string
	EventTime   string
	Location    string
	Description string
}

// DueReminders lists reminders whose date has arrived (date <= today).
func DueReminders(today string) ([]ReminderDispatch, error) {
	var rows []ReminderDispatch
	err := db.Conn().Table("reminders r").
		Select("r.id as reminder_id, COALESCE(u.chat_id, 0) as chat_id, "+
			"e.date as event_date, e.time as event_time, e.location, e.description").
		Joins("JOIN events e ON e.id = r.event_id").
		Joins("LEFT JOIN users u ON u.id = r.user_id").
		Where("r.date <= ?", today).
		Scan(&rows).Error
	return rows, err
}

// DeleteReminder removes a dispatched (or undeliverable) reminder. Dispatch
// happens before deletion, so a crash in between re-sends rather than drops.
func DeleteReminder(reminderID uint) error {
	return db.Conn().Delete(&models.Reminder{}, reminderID).Error
}

// SurveyTarget is one no-show registration to poll for a reason.
type SurveyTarget struct {
	RegistrationID uint
	ChatID         int64
}

// SurveyTargets lists linked users who registered for an active event dated
// before the given day but were not marked attended and have not yet given a
// reason. Sweeping every past event, not just yesterday's, means an event
// whose survey day fell into downtime is still picked up; the no-reason
// filter keeps re-runs from repeating the question.
func SurveyTargets(before string) ([]SurveyTarget, error) {
	var rows []SurveyTarget
	err := db.Conn().Table("registrations r").
		Select("r.id as registration_id, u.chat_id").
		Joins("JOIN events e ON e.id = r.event_id").
		Joins("JOIN users u ON u.id = r.user_id").
		Joins("LEFT JOIN non_attendance_reasons nar ON nar.registration_id = r.id").
		Where("e.date < ? AND e.status = ? AND r.status = ? AND r.attended = ? AND nar.id IS NULL AND u.chat_id IS NOT NULL",
			before, models.EventActive, models.RegStatusRegistered, false).
		Scan(&rows).Error
	return rows, err
}
