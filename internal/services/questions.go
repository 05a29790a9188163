package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/ventilia/nuclear-donor-bot/internal/db"
	"github.com/ventilia/nuclear-donor-bot/internal/models"
)

var ErrQuestionNotFound = errors.New("question not found")

// AddQuestion stores a user message to the organizers and returns its id.
func AddQuestion(userID uint, text string) (uint, error) {
	q := models.Question{UserID: userID, Text: text}
	if err := db.Conn().Create(&q).Error; err != nil {
		return 0, err
	}
	return q.ID, nil
}

// UnansweredQuestions lists open questions, newest first.
func UnansweredQuestions() ([]models.Question, error) {
	var qs []models.Question
	err := db.Conn().Where("answered = ?", false).
		Order("created_at desc").Find(&qs).Error
	return qs, err
}

// AnswerQuestion marks a question answered and returns the chat id of its
// author (0 when the author is unlinked) so the caller can deliver the reply.
func AnswerQuestion(questionID uint) (int64, error) {
	var chatID int64
	err := db.Conn().Transaction(func(tx *gorm.DB) error {
		var q models.Question
		if err := tx.First(&q, questionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrQuestionNotFound
			}
			return err
		}
		var u models.User
		if err := tx.First(&u, q.UserID).Error; err == nil && u.ChatID != nil {
			chatID = *u.ChatID
		}
		return tx.Model(&q).Update("answered", true).Error
	})
	return chatID, err
}
