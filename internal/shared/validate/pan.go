package validate

import (
	"regexp"
	"strings"
)

// PAN structure: 3 serial letters, a 4th letter encoding the holder
// category, a 5th letter (surname initial), 4 digits, 1 check letter.
var panRegex = regexp.MustCompile(`^[A-Z]{3}[ABCFGHLJPT][A-Z][0-9]{4}[A-Z]$`)

// Result is a format-check verdict with a user-facing reason on failure.
type Result struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// PAN validates an Indian Permanent Account Number after upper-casing.
func PAN(input string) Result {
	pan := strings.ToUpper(strings.TrimSpace(input))
	if panRegex.MatchString(pan) {
		return Result{Valid: true}
	}
	return Result{
		Valid: false,
		Reason: "A PAN must be 10 characters: 5 letters, 4 digits, 1 letter. " +
			"The 4th letter encodes the holder category (P for person, C for company, etc.).",
	}
}
