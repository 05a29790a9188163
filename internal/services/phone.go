package services

import (
	"regexp"
	"strings"
)

var (
	reLetters = regexp.MustCompile(`[A-Za-zА-Яа-я]`)
	// Only allow digits, spaces, +, -, (, )
	reAllowed = regexp.MustCompile(`^[0-9+\-\s\(\)]+$`)
)

// NormPhone normalizes phone numbers to the +E.164-like form stored in users.
// Rules: strip spaces/dashes/parens; 00.. -> +..; 8.. (Russian local) -> +7..;
// 7.. -> +7..; ensure leading +. Returns "" for unusable input.
func NormPhone(p string) string {
	s := strings.TrimSpace(p)

	if s == "" {
		return ""
	}
	if reLetters.MatchString(s) {
		return ""
	}
	if !reAllowed.MatchString(s) {
		return ""
	}

	repl := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", "\n", "", "\r", "")
	s = repl.Replace(s)

	if strings.HasPrefix(s, "00") {
		s = "+" + s[2:]
	}
	// 8XXXXXXXXXX (Russian trunk prefix) -> +7XXXXXXXXXX
	if strings.HasPrefix(s, "8") && len(s) == 11 {
		s = "+7" + s[1:]
	}
	if strings.HasPrefix(s, "7") && !strings.HasPrefix(s, "+") {
		s = "+" + s
	}
	if !strings.HasPrefix(s, "+") {
		s = "+" + s
	}
	return s
}
