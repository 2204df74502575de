package onboarding

import (
	"testing"

	"ArthaOnboard/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinalizeAccount_AssignsDetailsOnce(t *testing.T) {
	session := domain.NewSession()
	session.EmploymentType = "salaried"

	require.True(t, finalizeAccount(session))
	assert.True(t, session.Finalized)
	assert.Equal(t, "Savings Account", session.AccountType)
	assert.Contains(t, ifscPool, session.IFSC)

	firstNumber := session.AccountNumber
	firstIFSC := session.IFSC

	// A second call must be a no-op: same number, same branch.
	assert.False(t, finalizeAccount(session))
	assert.Equal(t, firstNumber, session.AccountNumber)
	assert.Equal(t, firstIFSC, session.IFSC)
}

func TestFinalizeAccount_AccountTypeByEmployment(t *testing.T) {
	testCases := []struct {
		employment string
		want       string
	}{
		{"student", "Student Savings Account"},
		{"freelancer", "Freelancer Current Account"},
		{"business", "Business Current Account"},
		{"salaried", "Savings Account"},
		{"", "Savings Account"},
	}

	for _, tc := range testCases {
		t.Run("employment "+tc.employment, func(t *testing.T) {
			session := domain.NewSession()
			session.EmploymentType = tc.employment
			require.True(t, finalizeAccount(session))
			assert.Equal(t, tc.want, session.AccountType)
		})
	}
}

func TestGenerateAccountNumber_Shape(t *testing.T) {
	for i := 0; i < 50; i++ {
		number := generateAccountNumber()
		require.Len(t, number, 12)
		assert.Equal(t, byte('4'), number[0])
		for _, r := range number {
			assert.True(t, r >= '0' && r <= '9', "non-digit in account number %q", number)
		}
	}
}

func TestAccountSummaryMessage_ContainsDetails(t *testing.T) {
	session := domain.NewSession()
	session.EmploymentType = "freelancer"
	require.True(t, finalizeAccount(session))

	summary := accountSummaryMessage(session)
	assert.Contains(t, summary, session.AccountType)
	assert.Contains(t, summary, session.AccountNumber)
	assert.Contains(t, summary, session.IFSC)
	assert.Contains(t, summary, `"skip"`)

	body := accountEmailBody(session)
	assert.Contains(t, body, session.AccountNumber)
	assert.Contains(t, body, session.IFSC)
}
