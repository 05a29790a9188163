package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/ventilia/nuclear-donor-bot/internal/db"
	"github.com/ventilia/nuclear-donor-bot/internal/events"
	"github.com/ventilia/nuclear-donor-bot/internal/models"
)

var (
	// ErrDuplicatePhone means the phone is already claimed by a profile
	// linked to a different chat. Never resolved silently; the caller asks
	// the user to restart with another number.
	ErrDuplicatePhone = errors.New("phone already claimed by another profile")

	ErrProfileNotFound = errors.New("profile not found")
)

// ProfileSubmission carries the fields collected by the registration form.
type ProfileSubmission struct {
	ChatID         int64
	Phone          string
	FullName       string
	Category       string
	GroupName      string
	SocialContacts *string // nil when the user answered "none"
	Consent        bool
}

// LookupByPhone returns the profile owning phone, or ErrProfileNotFound.
// The conversation layer uses it to offer "is this you?" confirmation.
func LookupByPhone(phone string) (*models.User, error) {
	var u models.User
	err := db.Conn().Where("phone = ?", phone).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UserByID returns a profile by primary key, or ErrProfileNotFound.
func UserByID(userID uint) (*models.User, error) {
	var u models.User
	err := db.Conn().First(&u, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UserByChatID returns the profile linked to a chat, or ErrProfileNotFound.
func UserByChatID(chatID int64) (*models.User, error) {
	var u models.User
	err := db.Conn().Where("chat_id = ?", chatID).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ConfirmExisting links a phone-matched profile to the current chat after
// the user confirmed "this is me". Policy: merge by phone only when the row
// is not linked to another chat yet; otherwise the claim is a conflict.
func ConfirmExisting(chatID int64, phone string, consent bool) (*models.User, error) {
	var u models.User
	err := db.Conn().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("phone = ?", phone).First(&u).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProfileNotFound
			}
			return err
		}
		if u.ChatID != nil && *u.ChatID != chatID {
			return ErrDuplicatePhone
		}
		u.ChatID = &chatID
		if consent {
			u.Consent = true
		}
		return tx.Save(&u).Error
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// SubmitProfile upserts a profile and sends it to moderation (status
// pending). The row is matched by phone when the submission carries one, by
// chat id otherwise: the form is reachable without a shared contact, so a
// phone-less profile is keyed by the chat alone. Consent is only ever raised
// here, never cleared; a form re-run without the consent step must not revoke
// an earlier agreement.
func SubmitProfile(sub ProfileSubmission) (*models.User, error) {
	phone := NormPhone(sub.Phone)
	if sub.Category != models.CategoryStudent {
		sub.GroupName = ""
	}

	var u models.User
	err := db.Conn().Transaction(func(tx *gorm.DB) error {
		var err error
		if phone != "" {
			err = tx.Where("phone = ?", phone).First(&u).Error
		} else {
			err = tx.Where("chat_id = ?", sub.ChatID).First(&u).Error
		}
		if errors.Is(err, gorm.ErrRecordNotFound) && phone != "" {
			// A returning user may re-run the form with a new number;
			// reuse their chat-linked row instead of colliding on the
			// chat uniqueness.
			if e2 := tx.Where("chat_id = ?", sub.ChatID).First(&u).Error; e2 == nil {
				err = nil
			} else if !errors.Is(e2, gorm.ErrRecordNotFound) {
				return e2
			}
		}
		switch {
		case err == nil:
			if u.ChatID != nil && *u.ChatID != sub.ChatID {
				return ErrDuplicatePhone
			}
			u.ChatID = &sub.ChatID
			if phone != "" {
				u.Phone = &phone
			}
			u.FullName = sub.FullName
			u.Category = sub.Category
			u.GroupName = sub.GroupName
			u.SocialContacts = sub.SocialContacts
			if sub.Consent {
				u.Consent = true
			}
			u.ProfileStatus = models.ProfilePending
			return tx.Save(&u).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			u = models.User{
				ChatID:         &sub.ChatID,
				FullName:       sub.FullName,
				Category:       sub.Category,
				GroupName:      sub.GroupName,
				SocialContacts: sub.SocialContacts,
				Consent:        sub.Consent,
				ProfileStatus:  models.ProfilePending,
			}
			if phone != "" {
				u.Phone = &phone
			}
			return tx.Create(&u).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ModerateProfile applies an admin decision. On approval the moderation hook
// fires with the linked chat id so the transport can notify the user; the
// notification itself is not performed here.
func ModerateProfile(userID uint, approve bool) error {
	var u models.User
	if err := db.Conn().First(&u, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProfileNotFound
		}
		return err
	}

	status := models.ProfileRejected
	if approve {
		status = models.ProfileApproved
	}
	if err := db.Conn().Model(&u).Update("profile_status", status).Error; err != nil {
		return err
	}

	if u.ChatID != nil && events.OnProfileModerated != nil {
		events.OnProfileModerated(*u.ChatID, approve)
	}
	return nil
}

// UpdateConsentByPhone flips the consent flag for an existing profile.
// A missing row is not an error: consent for new users is captured on submit.
func UpdateConsentByPhone(phone string, consent bool) error {
	return db.Conn().Model(&models.User{}).
		Where("phone = ?", phone).
		Update("consent", consent).Error
}

// PendingProfiles lists profiles awaiting moderation.
func PendingProfiles() ([]models.User, error) {
	var users []models.User
	err := db.Conn().Where("profile_status = ?", models.ProfilePending).
		Order("created_at asc").Find(&users).Error
	return users, err
}

// AllUsers lists every profile, for backups.
func AllUsers() ([]models.User, error) {
	var users []models.User
	err := db.Conn().Order("id asc").Find(&users).Error
	return users, err
}

// UsersPage returns one page of profiles for the admin browser.
func UsersPage(limit, offset int) ([]models.User, error) {
	var users []models.User
	err := db.Conn().Order("id asc").Limit(limit).Offset(offset).Find(&users).Error
	return users, err
}

// KickUser removes a profile and everything hanging off it. Returns the
// linked chat id (0 when unlinked) so the caller can send the farewell.
func KickUser(userID uint) (int64, error) {
	var chatID int64
	err := db.Conn().Transaction(func(tx *gorm.DB) error {
		var u models.User
		if err := tx.First(&u, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProfileNotFound
			}
			return err
		}
		if u.ChatID != nil {
			chatID = *u.ChatID
		}

		var regIDs []uint
		if err := tx.Model(&models.Registration{}).
			Where("user_id = ?", userID).Pluck("id", &regIDs).Error; err != nil {
			return err
		}
		if len(regIDs) > 0 {
			if err := tx.Where("registration_id IN ?", regIDs).
				Delete(&models.NonAttendanceReason{}).Error; err != nil {
				return err
			}
		}
		for _, m := range []any{
			&models.Registration{}, &models.Reminder{},
			&models.Donation{}, &models.Question{},
		} {
			if err := tx.Where("user_id = ?", userID).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.User{}, userID).Error
	})
	return chatID, err
}
