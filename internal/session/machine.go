package session

import (
	"regexp"
	"strings"
	"time"

	"github.com/ventilia/nuclear-donor-bot/internal/models"
)

// BackLabel is the reply-keyboard button that rewinds one form step.
const BackLabel = "Назад 🔙"

// NoneAnswer marks an intentionally empty social-contacts field.
const NoneAnswer = "нет"

var (
	// Full name: letters and spaces only, at least surname + name.
	nameRE = regexp.MustCompile(`^[А-Яа-яЁёA-Za-z\s]+$`)
	// Study group: one Cyrillic letter, 2 digits, hyphen, 3 digits.
	groupRE = regexp.MustCompile(`^[А-ЯЁ]\d{2}-\d{3}$`)
)

// ValidFullName reports whether s is an acceptable full name.
func ValidFullName(s string) bool {
	s = strings.TrimSpace(s)
	return nameRE.MatchString(s) && len(strings.Fields(s)) >= 2
}

// ValidGroup reports whether s matches the study-group format (Б21-302).
func ValidGroup(s string) bool {
	return groupRE.MatchString(strings.TrimSpace(s))
}

// ValidEventDate reports whether s is a parseable YYYY-MM-DD date.
func ValidEventDate(s string) bool {
	_, err := time.Parse(models.DateLayout, strings.TrimSpace(s))
	return err == nil
}

// ParseCategory maps a category callback ("cat_student") to its model value.
func ParseCategory(data string) (string, bool) {
	switch strings.TrimPrefix(data, "cat_") {
	case models.CategoryStudent:
		return models.CategoryStudent, true
	case "employee":
		return models.CategoryEmployee, true
	case "external":
		return models.CategoryExternal, true
	}
	return "", false
}

// IsBack reports whether the input is the back/rewind button.
func IsBack(text string) bool {
	return strings.TrimSpace(text) == BackLabel
}

// Action tells the transport what a form step produced.
type Action int

const (
	// ActionPrompt: the state advanced; prompt for the new state.
	ActionPrompt Action = iota
	// ActionReject: input failed validation; re-prompt the same state,
	// nothing stored.
	ActionReject
	// ActionSubmit: the form is complete; Fields carry the profile.
	ActionSubmit
	// ActionCancelled: the user backed out of the first step; the session
	// should be cleared.
	ActionCancelled
)

// StepResult is the outcome of applying one input to the profile form.
type StepResult struct {
	Action Action
	State  State
}

// StepProfileForm is the single source of transition truth for the text
// steps of the profile form (name, group, social). Category arrives as a
// callback and goes through ChooseCategory instead. The session is mutated
// only when the input is accepted.
func StepProfileForm(s *Session, input string) StepResult {
	if IsBack(input) {
		return stepBack(s)
	}

	switch s.State {
	case StateCollectingName:
		fio := strings.TrimSpace(input)
		if !ValidFullName(fio) {
			return StepResult{Action: ActionReject, State: s.State}
		}
		s.Fields[FieldFullName] = titleCase(fio)
		s.State = StateCollectingCategory
		return StepResult{Action: ActionPrompt, State: s.State}

	case StateCollectingGroup:
		group := strings.ToUpper(strings.TrimSpace(input))
		if !ValidGroup(group) {
			return StepResult{Action: ActionReject, State: s.State}
		}
		s.Fields[FieldGroup] = group
		s.State = StateCollectingSocial
		return StepResult{Action: ActionPrompt, State: s.State}

	case StateCollectingSocial:
		social := strings.TrimSpace(input)
		if strings.EqualFold(social, NoneAnswer) {
			social = ""
		}
		s.Fields[FieldSocial] = social
		return StepResult{Action: ActionSubmit, State: s.State}
	}

	return StepResult{Action: ActionReject, State: s.State}
}

// ChooseCategory applies a category selection and branches the form:
// students are asked for a group, everyone else goes straight to social
// contacts.
func ChooseCategory(s *Session, data string) StepResult {
	cat, ok := ParseCategory(data)
	if !ok || s.State != StateCollectingCategory {
		return StepResult{Action: ActionReject, State: s.State}
	}
	s.Fields[FieldCategory] = cat
	if cat == models.CategoryStudent {
		s.State = StateCollectingGroup
	} else {
		s.State = StateCollectingSocial
	}
	return StepResult{Action: ActionPrompt, State: s.State}
}

// titleCase normalizes "иванов иван" to "Иванов Иван".
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// stepBack rewinds to the previous collecting step. Backing out of the name
// step abandons the form; nothing has been written to storage at that point.
func stepBack(s *Session) StepResult {
	switch s.State {
	case StateCollectingName:
		return StepResult{Action: ActionCancelled, State: s.State}
	case StateCollectingCategory:
		s.State = StateCollectingName
	case StateCollectingGroup:
		s.State = StateCollectingCategory
	case StateCollectingSocial:
		if s.Fields[FieldCategory] == models.CategoryStudent {
			s.State = StateCollectingGroup
		} else {
			s.State = StateCollectingCategory
		}
	default:
		return StepResult{Action: ActionReject, State: s.State}
	}
	return StepResult{Action: ActionPrompt, State: s.State}
}
