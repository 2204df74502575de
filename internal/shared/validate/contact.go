package validate

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Email is the local format pre-check run before any external
// deliverability lookup.
func Email(address string) bool {
	return emailRegex.MatchString(address)
}

// NormalizePhone strips whitespace, dashes and parentheses, keeping an
// optional leading "+". It reports false when the remainder is not a
// plausible digit string; country and deliverability checks are
// delegated to the external capability.
func NormalizePhone(input string) (string, bool) {
	stripped := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '-', '(', ')':
			return -1
		}
		return r
	}, strings.TrimSpace(input))

	digits := stripped
	if strings.HasPrefix(digits, "+") {
		digits = digits[1:]
	}
	if len(digits) == 0 {
		return "", false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return stripped, true
}
