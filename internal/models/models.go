package models

import "time"

// Profile moderation states.
const (
	ProfilePending  = "pending"
	ProfileApproved = "approved"
	ProfileRejected = "rejected"
)

// Donor categories. Students must also supply a study group.
const (
	CategoryStudent  = "student"
	CategoryEmployee = "employee"
	CategoryExternal = "external"
)

// Event states. Frozen events refuse new registrations.
const (
	EventActive = "active"
	EventFrozen = "frozen"
)

// Registration states.
const (
	RegStatusRegistered = "registered"
	RegStatusCancelled  = "cancelled"
)

// Donation centers tracked by the organizers.
const (
	CenterGavrilov = "Гаврилова"
	CenterFMBA     = "ФМБА"
)

// DateLayout is the wire format for event, reminder and donation dates.
const DateLayout = "2006-01-02"

// User is one donor profile. Phone and ChatID are pointers so that unlinked
// or imported rows stay out of the unique indexes (SQLite treats NULLs as
// distinct).
type User struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	ChatID         *int64  `gorm:"uniqueIndex"` // external chat id, nil until linked
	Phone          *string `gorm:"uniqueIndex"`
	FullName       string
	Category       string // student | employee | external
	GroupName      string // study group, students only
	SocialContacts *string
	MarrowRegistry bool   // joined the bone-marrow registry
	Consent        bool   // accepted the privacy policy
	ProfileStatus  string `gorm:"default:pending"`
}

// Event is one donation session.
type Event struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Date        string // YYYY-MM-DD
	Time        string // HH:MM
	Location    string
	Description string
	Capacity    int
	Status      string `gorm:"default:active"` // active | frozen
}

// DateAsTime parses the stored event date.
func (e *Event) DateAsTime() (time.Time, error) {
	return time.Parse(DateLayout, e.Date)
}

// Registration joins a user to an event. Code is the reference shown at
// check-in (and encoded in the QR image).
type Registration struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	UserID  uint `gorm:"index"`
	EventID uint `gorm:"index"`

	Status   string `gorm:"default:registered"` // registered | cancelled
	Attended bool
	Code     string `gorm:"uniqueIndex"` // e.g. REG-123456
}

// Reminder is a one-shot notice scheduled a day before its event. Rows are
// deleted after dispatch.
type Reminder struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	UserID  uint
	EventID uint
	Date    string `gorm:"index"` // YYYY-MM-DD, dispatch when <= today
}

// Donation is a completed donation on record.
type Donation struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	UserID uint `gorm:"index"`
	Date   string
	Center string
}

// NonAttendanceReason holds at most one free-text reason per registration.
type NonAttendanceReason struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	RegistrationID uint `gorm:"uniqueIndex"`
	Reason         string
}

// Question is a user message to the organizers.
type Question struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	UserID   uint `gorm:"index"`
	Text     string
	Answered bool
}

// Admin grants moderation rights to a chat id. Seeded once, then managed
// through the add-admin flow.
type Admin struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	ChatID int64 `gorm:"uniqueIndex"`
}
