// Package scheduler runs the periodic background work: due reminders the
// day before an event and the next-day non-attendance survey.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ventilia/nuclear-donor-bot/internal/models"
	"github.com/ventilia/nuclear-donor-bot/internal/services"
)

// Notifier delivers scheduled messages. The bot dispatcher implements it.
type Notifier interface {
	Notify(chatID int64, text string) error
	SurveyNonAttendance(chatID int64, registrationID uint) error
}

// Scheduler sweeps reminders on a fixed interval and polls no-shows once a
// day after surveyHour.
type Scheduler struct {
	n          Notifier
	log        *zap.Logger
	interval   time.Duration
	surveyHour int

	lastSurveyDay string
}

func New(n Notifier, log *zap.Logger, interval time.Duration, surveyHour int) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{n: n, log: log, interval: interval, surveyHour: surveyHour}
}

// Run blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := time.Now()
			s.SweepReminders(now)
			s.SweepSurveys(now)
		}
	}
}

// SweepReminders sends every due reminder and deletes the row afterwards.
// Send-then-delete means a crash in between re-sends; duplicates are
// preferable to silently dropped reminders.
func (s *Scheduler) SweepReminders(now time.Time) {
	today := now.Format(models.DateLayout)
	due, err := services.DueReminders(today)
	if err != nil {
		s.log.Error("reminder sweep query failed", zap.Error(err))
		return
	}
	for _, r := range due {
		if r.ChatID != 0 {
			text := fmt.Sprintf(
				"Напоминание: завтра, %s в %s, мероприятие «%s» (%s). Ждём вас! ⏰",
				r.EventDate, r.EventTime, r.Description, r.Location)
			if err := s.n.Notify(r.ChatID, text); err != nil {
				s.log.Warn("reminder send failed",
					zap.Int64("chat", r.ChatID), zap.Uint("reminder", r.ReminderID), zap.Error(err))
				continue // keep the row, retry next sweep
			}
		}
		if err := services.DeleteReminder(r.ReminderID); err != nil {
			s.log.Error("reminder delete failed", zap.Uint("reminder", r.ReminderID), zap.Error(err))
		}
	}
}

// SweepSurveys asks the no-shows of every past active event for a reason,
// once per calendar day at or after surveyHour. The target query covers all
// past dates, so an event whose survey day fell into downtime is caught on
// the next run; registrations that already answered are filtered out, which
// keeps re-runs from repeating the question.
func (s *Scheduler) SweepSurveys(now time.Time) {
	if now.Hour() < s.surveyHour {
		return
	}
	today := now.Format(models.DateLayout)
	if s.lastSurveyDay == today {
		return
	}
	s.lastSurveyDay = today

	targets, err := services.SurveyTargets(today)
	if err != nil {
		s.log.Error("survey sweep query failed", zap.Error(err))
		return
	}
	for _, t := range targets {
		if err := s.n.SurveyNonAttendance(t.ChatID, t.RegistrationID); err != nil {
			s.log.Warn("survey send failed",
				zap.Int64("chat", t.ChatID), zap.Uint("registration", t.RegistrationID), zap.Error(err))
		}
	}
	if len(targets) > 0 {
		s.log.Info("non-attendance survey sent", zap.Int("count", len(targets)))
	}
}
