package domain

import (
	"fmt"
	"math"
	"strings"
)

// RiskLevel is a custom type for the risk bucket ENUM
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// RiskInputs is the immutable input to a scoring call.
type RiskInputs struct {
	MonthlyIncome     float64 // INR, non-negative
	EmploymentType    string  // free text, lower-cased for lookup
	DocumentsVerified bool
	FaceVerified      bool
}

// RiskResult is created fresh on every scoring call and never mutated.
type RiskResult struct {
	Probability float64   `json:"probability"`
	Level       RiskLevel `json:"level"`
	DTI         float64   `json:"dti"`
	Explanation string    `json:"explanation"`
}

// Logistic regression with fixed, hand-set coefficients.
const riskIntercept = -1.5

var employmentCoefficients = map[string]float64{
	"salaried":   -0.8,
	"business":   0.1,
	"freelancer": 0.6,
	"student":    1.2,
}

const unknownEmploymentCoefficient = 0.3

// ScoreRisk computes a default-risk estimate for the given inputs.
// It is a total function: it never fails, and the same inputs always
// produce the same result.
func ScoreRisk(in RiskInputs) RiskResult {
	employment := strings.ToLower(strings.TrimSpace(in.EmploymentType))

	z := riskIntercept
	z += incomeTerm(in.MonthlyIncome)

	if coef, ok := employmentCoefficients[employment]; ok {
		z += coef
	} else {
		z += unknownEmploymentCoefficient
	}

	if in.DocumentsVerified {
		z += -0.4
	} else {
		z += 0.3
	}
	if in.FaceVerified {
		z += -0.3
	} else {
		z += 0.2
	}

	probability := sigmoid(z)
	dti := estimateDTI(employment, in.MonthlyIncome)

	return RiskResult{
		Probability: probability,
		Level:       riskLevelOf(probability),
		DTI:         dti,
		Explanation: buildExplanation(in, employment, probability, dti),
	}
}

func incomeTerm(monthlyIncome float64) float64 {
	switch {
	case monthlyIncome > 80000:
		return -1.2
	case monthlyIncome > 40000:
		return -0.5
	case monthlyIncome > 20000:
		return 0.2
	case monthlyIncome > 10000:
		return 0.8
	default:
		return 1.5
	}
}

func estimateDTI(employment string, monthlyIncome float64) float64 {
	switch employment {
	case "student":
		return 55
	case "freelancer":
		return 42
	case "business":
		return 35
	default:
		return math.Max(10, 40-monthlyIncome/5000)
	}
}

func incomeBand(monthlyIncome float64) string {
	switch {
	case monthlyIncome > 80000:
		return "high"
	case monthlyIncome > 40000:
		return "moderate"
	case monthlyIncome > 20000:
		return "lower-moderate"
	default:
		return "low"
	}
}

func buildExplanation(in RiskInputs, employment string, probability, dti float64) string {
	verificationClause := "Identity verification is incomplete, so the estimate carries extra uncertainty."
	if in.DocumentsVerified && in.FaceVerified {
		verificationClause = "Document and face verification are both complete, which strengthens the profile."
	}

	return fmt.Sprintf(
		"Estimated default probability is %.0f%% (%s risk). Monthly income of ₹%.0f sits in the %s band, employment type is %s, and the estimated debt-to-income ratio is %.0f%%. %s",
		probability*100,
		strings.ToLower(string(riskLevelOf(probability))),
		in.MonthlyIncome,
		incomeBand(in.MonthlyIncome),
		employment,
		math.Round(dti),
		verificationClause,
	)
}

func riskLevelOf(probability float64) RiskLevel {
	switch {
	case probability < 0.35:
		return RiskLow
	case probability < 0.65:
		return RiskMedium
	default:
		return RiskHigh
	}
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
