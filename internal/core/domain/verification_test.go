package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func boolPtr(v bool) *bool { return &v }

func TestFaceVerificationResult_Passed(t *testing.T) {
	cases := []struct {
		name   string
		result FaceVerificationResult
		want   bool
	}{
		{
			name:   "liveness true, match omitted defaults open",
			result: FaceVerificationResult{Liveness: true, Match: nil},
			want:   true,
		},
		{
			name:   "explicit liveness false gates progress",
			result: FaceVerificationResult{Liveness: false, Match: nil, Reason: "blurred"},
			want:   false,
		},
		{
			name:   "explicit match false gates progress",
			result: FaceVerificationResult{Liveness: true, Match: boolPtr(false)},
			want:   false,
		},
		{
			name:   "both explicit true",
			result: FaceVerificationResult{Liveness: true, Match: boolPtr(true)},
			want:   true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.result.Passed())
		})
	}
}

func TestDocumentVerificationResult_Flagged(t *testing.T) {
	assert.False(t, (&DocumentVerificationResult{OverallVerdict: VerdictGenuine}).Flagged())
	assert.True(t, (&DocumentVerificationResult{OverallVerdict: VerdictSuspicious}).Flagged())
	assert.True(t, (&DocumentVerificationResult{OverallVerdict: VerdictLikelyFake}).Flagged())
}

func TestSession_ReadyToFinalize(t *testing.T) {
	income := 30000.0

	s := NewSession()
	assert.False(t, s.ReadyToFinalize(), "fresh session is never ready")

	s.EmploymentType = "salaried"
	s.DocumentsVerified = true
	s.FaceVerified = true
	assert.False(t, s.ReadyToFinalize(), "salaried without income is not ready")

	s.MonthlyIncome = &income
	assert.True(t, s.ReadyToFinalize())

	s.Finalized = true
	assert.False(t, s.ReadyToFinalize(), "finalization fires exactly once")
}

func TestSession_StudentSkipsIncome(t *testing.T) {
	s := NewSession()
	s.EmploymentType = "student"
	s.DocumentsVerified = true
	s.FaceVerified = true
	assert.True(t, s.ReadyToFinalize(), "students finalize without income")
}

func TestSession_CloneIsDeep(t *testing.T) {
	income := 12000.0
	s := NewSession()
	s.MonthlyIncome = &income
	s.Risk = &RiskResult{Probability: 0.2, Level: RiskLow}
	s.Transcript = []TranscriptEntry{{Role: RoleUser, Content: "hi"}}

	clone := s.Clone()
	*clone.MonthlyIncome = 99
	clone.Risk.Probability = 0.9
	clone.Transcript[0].Content = "changed"

	assert.Equal(t, 12000.0, *s.MonthlyIncome)
	assert.Equal(t, 0.2, s.Risk.Probability)
	assert.Equal(t, "hi", s.Transcript[0].Content)
}
