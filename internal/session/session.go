// Package session holds the per-chat conversation state: which step of a
// multi-step form the user is on and the field values accumulated so far.
// Nothing here touches storage; only terminal steps do, through services.
package session

import "sync"

// State is the current conversation step for one chat.
type State int

const (
	StateNone State = iota

	// Profile registration flow.
	StateAwaitingConsent
	StateAwaitingPhone
	StateAwaitingProfileConfirm
	StateCollectingName
	StateCollectingCategory
	StateCollectingGroup
	StateCollectingSocial

	// Post-cancellation and Q&A.
	StateAwaitingCancelReason
	StateAwaitingQuestion
	StateAwaitingAnswer

	// Admin: event creation form.
	StateEventDate
	StateEventTime
	StateEventLocation
	StateEventDescription
	StateEventCapacity

	// Admin: broadcast with optional photo and confirm step.
	StateBroadcastText
	StateBroadcastPhoto
	StateBroadcastConfirm

	// Admin: add-admin with confirm step.
	StateAddAdminID
	StateAddAdminConfirm

	// Admin: spreadsheet uploads and destructive restore confirm.
	StateAwaitingStatsFile
	StateAwaitingAttendanceFile
	StateRestoreFile
	StateRestoreConfirm
)

// Well-known field keys for Session.Fields.
const (
	FieldPhone      = "phone"
	FieldFullName   = "fio"
	FieldCategory   = "category"
	FieldGroup      = "group"
	FieldSocial     = "social"
	FieldConsent    = "consent"
	FieldRegID      = "reg_id"
	FieldQuestionID = "question_id"
	FieldEventDate  = "event_date"
	FieldEventTime  = "event_time"
	FieldEventLoc   = "event_location"
	FieldEventDesc  = "event_description"
	FieldText       = "text"
	FieldPhotoID    = "photo_id"
	FieldAdminID    = "admin_id"
	FieldEventID    = "event_id"
	FieldCenter     = "center"
)

// Session is the tagged "current state + accumulated fields" value for one
// chat.
type Session struct {
	State  State
	Fields map[string]string
}

func newSession() *Session {
	return &Session{State: StateNone, Fields: make(map[string]string)}
}

// Store keeps sessions in memory keyed by chat id. Message handling for a
// single chat is sequential, but different chats arrive concurrently, so all
// access goes through the lock.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[int64]*Session)}
}

// State returns the current state for a chat (StateNone when no session).
func (s *Store) State(chatID int64) State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sess, ok := s.sessions[chatID]; ok {
		return sess.State
	}
	return StateNone
}

// SetState moves a chat to the given state, creating the session if needed.
func (s *Store) SetState(chatID int64, state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[chatID]
	if !ok {
		sess = newSession()
		s.sessions[chatID] = sess
	}
	sess.State = state
}

// SetField stores an accumulated form value.
func (s *Store) SetField(chatID int64, key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[chatID]
	if !ok {
		sess = newSession()
		s.sessions[chatID] = sess
	}
	sess.Fields[key] = value
}

// Field reads an accumulated form value ("" when absent).
func (s *Store) Field(chatID int64, key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sess, ok := s.sessions[chatID]; ok {
		return sess.Fields[key]
	}
	return ""
}

// Update runs fn against the chat's session under the lock, creating the
// session if needed. The form machine mutates sessions through this.
func (s *Store) Update(chatID int64, fn func(*Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[chatID]
	if !ok {
		sess = newSession()
		s.sessions[chatID] = sess
	}
	fn(sess)
}

// Snapshot returns a copy of the session for a chat.
func (s *Store) Snapshot(chatID int64) Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[chatID]
	if !ok {
		return Session{State: StateNone, Fields: map[string]string{}}
	}
	cp := Session{State: sess.State, Fields: make(map[string]string, len(sess.Fields))}
	for k, v := range sess.Fields {
		cp.Fields[k] = v
	}
	return cp
}

// Clear drops the session entirely; the next input starts from StateNone.
func (s *Store) Clear(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, chatID)
}
