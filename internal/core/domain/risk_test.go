package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreRisk_ProbabilityBounds(t *testing.T) {
	employments := []string{"salaried", "business", "freelancer", "student", "astronaut", ""}
	incomes := []float64{0, 500, 10000, 10001, 20000, 20001, 40000, 40001, 80000, 80001, 500000}

	for _, employment := range employments {
		for _, income := range incomes {
			for _, docs := range []bool{false, true} {
				for _, face := range []bool{false, true} {
					result := ScoreRisk(RiskInputs{
						MonthlyIncome:     income,
						EmploymentType:    employment,
						DocumentsVerified: docs,
						FaceVerified:      face,
					})
					assert.GreaterOrEqual(t, result.Probability, 0.0)
					assert.LessOrEqual(t, result.Probability, 1.0)
					assert.Equal(t, riskLevelOf(result.Probability), result.Level,
						"level must be a pure function of probability")
					assert.GreaterOrEqual(t, result.DTI, 10.0)
				}
			}
		}
	}
}

func TestScoreRisk_BestCaseSalaried(t *testing.T) {
	result := ScoreRisk(RiskInputs{
		MonthlyIncome:     100000,
		EmploymentType:    "salaried",
		DocumentsVerified: true,
		FaceVerified:      true,
	})

	// z = -1.5 - 1.2 - 0.8 - 0.4 - 0.3 = -4.2
	assert.InDelta(t, 0.0148, result.Probability, 0.001)
	assert.Equal(t, RiskLow, result.Level)
}

func TestScoreRisk_UnverifiedStudent(t *testing.T) {
	result := ScoreRisk(RiskInputs{
		MonthlyIncome:     5000,
		EmploymentType:    "student",
		DocumentsVerified: false,
		FaceVerified:      false,
	})

	assert.Equal(t, 55.0, result.DTI)
	assert.Equal(t, RiskHigh, result.Level)
}

func TestScoreRisk_EmploymentIsCaseInsensitive(t *testing.T) {
	lower := ScoreRisk(RiskInputs{MonthlyIncome: 50000, EmploymentType: "salaried"})
	upper := ScoreRisk(RiskInputs{MonthlyIncome: 50000, EmploymentType: "  SALARIED "})
	assert.Equal(t, lower.Probability, upper.Probability)
}

func TestScoreRisk_UnknownEmploymentDefaults(t *testing.T) {
	known := ScoreRisk(RiskInputs{MonthlyIncome: 50000, EmploymentType: "business"})
	unknown := ScoreRisk(RiskInputs{MonthlyIncome: 50000, EmploymentType: "circus performer"})

	// business coefficient is 0.1, unknown defaults to 0.3
	assert.Greater(t, unknown.Probability, known.Probability)
}

func TestScoreRisk_DTIFloor(t *testing.T) {
	// 40 - 200000/5000 would be -0 without the floor at 10.
	result := ScoreRisk(RiskInputs{MonthlyIncome: 200000, EmploymentType: "salaried"})
	assert.Equal(t, 10.0, result.DTI)
}

func TestScoreRisk_LevelThresholds(t *testing.T) {
	cases := []struct {
		probability float64
		want        RiskLevel
	}{
		{0.0, RiskLow},
		{0.3499, RiskLow},
		{0.35, RiskMedium},
		{0.6499, RiskMedium},
		{0.65, RiskHigh},
		{1.0, RiskHigh},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("p=%.4f", tc.probability), func(t *testing.T) {
			assert.Equal(t, tc.want, riskLevelOf(tc.probability))
		})
	}
}

func TestScoreRisk_ExplanationMentionsVerification(t *testing.T) {
	verified := ScoreRisk(RiskInputs{
		MonthlyIncome:     60000,
		EmploymentType:    "salaried",
		DocumentsVerified: true,
		FaceVerified:      true,
	})
	require.Contains(t, verified.Explanation, "both complete")

	unverified := ScoreRisk(RiskInputs{
		MonthlyIncome:  60000,
		EmploymentType: "salaried",
	})
	require.Contains(t, unverified.Explanation, "incomplete")
}

func TestScoreRisk_IsDeterministic(t *testing.T) {
	in := RiskInputs{MonthlyIncome: 32000, EmploymentType: "freelancer", DocumentsVerified: true}
	first := ScoreRisk(in)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ScoreRisk(in))
	}
}
