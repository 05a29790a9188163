package services

import "testing"

// TestNormPhone covers the normalization rules: trunk-8 rewriting, 00 prefix,
// separator stripping and rejection of non-phone input.
func TestNormPhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"+79001234567", "+79001234567"},
		{"79001234567", "+79001234567"},
		{"89001234567", "+79001234567"},
		{"8 (900) 123-45-67", "+79001234567"},
		{"0079001234567", "+79001234567"},
		{"  +7 900 123 45 67  ", "+79001234567"},
		{"911", "+911"},
		{"", ""},
		{"phone", ""},
		{"8900abc4567", ""},
		{"+7900_1234567", ""},
	}
	for _, c := range cases {
		if got := NormPhone(c.in); got != c.want {
			t.Errorf("NormPhone(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
