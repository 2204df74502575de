package onboarding

import (
	"fmt"
	"math/rand/v2"

	"ArthaOnboard/internal/core/domain"
)

// Valid-looking IFSC codes of the issuing branch pool.
var ifscPool = []string{"ARTH0001021", "ARTH0002513", "ARTH0004096"}

var accountTypeByEmployment = map[string]string{
	"student":    "Student Savings Account",
	"freelancer": "Freelancer Current Account",
	"business":   "Business Current Account",
}

const defaultAccountType = "Savings Account"

// finalizeAccount assigns the account details exactly once per session.
// It reports whether this call performed the assignment.
func finalizeAccount(s *domain.Session) bool {
	if s.Finalized {
		return false
	}

	s.AccountNumber = generateAccountNumber()
	s.IFSC = ifscPool[rand.IntN(len(ifscPool))]
	s.AccountType = accountTypeByEmployment[s.EmploymentType]
	if s.AccountType == "" {
		s.AccountType = defaultAccountType
	}
	s.Finalized = true
	return true
}

// generateAccountNumber builds a random 12-digit numeral with a fixed
// leading digit so generated numbers never collide with real ranges.
func generateAccountNumber() string {
	digits := make([]byte, 12)
	digits[0] = '4'
	for i := 1; i < len(digits); i++ {
		digits[i] = byte('0' + rand.IntN(10))
	}
	return string(digits)
}

// accountSummaryMessage renders the templated summary shown (and later
// emailed) once the account exists.
func accountSummaryMessage(s *domain.Session) string {
	return fmt.Sprintf(
		"🎉 Your %s is ready!\n\nAccount number: %s\nIFSC: %s\n\nWould you like these details emailed to you? Reply with your email address, or type \"skip\".",
		s.AccountType, s.AccountNumber, s.IFSC,
	)
}

// accountEmailBody renders the HTML body of the account-details email.
func accountEmailBody(s *domain.Session) string {
	return fmt.Sprintf(
		"<h2>Welcome to Artha Bank</h2><p>Your %s has been opened.</p><ul><li>Account number: <b>%s</b></li><li>IFSC: <b>%s</b></li></ul><p>Keep these details safe.</p>",
		s.AccountType, s.AccountNumber, s.IFSC,
	)
}
