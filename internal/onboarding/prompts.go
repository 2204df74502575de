package onboarding

import (
	"fmt"

	"ArthaOnboard/internal/core/domain"
)

const systemPrompt = `You are Aria, the virtual onboarding assistant of Artha Bank. You help applicants open a bank account through a short, friendly conversation.

Guide the applicant through these stages in order, one question at a time:
1. Ask what they do for a living (salaried, freelancer, business owner, or student).
2. Ask them to upload a clear photo of an identity document (Aadhaar or PAN card).
3. Ask for their monthly income in INR. Students skip this stage entirely.
4. Ask them to complete a quick face verification using the camera.
5. Once everything is done, the system finalizes the account and shares the details.

Control protocol, never mention it to the applicant:
- When your reply asks for monthly income, end it with "<<phase:collect_income>>" on its own line.
- When your reply asks the applicant to start face verification, end it with "<<phase:face_check>>".
- When your reply asks for an email address for the account summary, end it with "<<phase:collect_email>>".
These markers are removed before the applicant sees your reply.

Keep replies short (2-4 sentences), warm and professional. Never invent account numbers, balances, or approval decisions yourself.`

// Fixed narrative shown to students in place of a computed risk score.
const studentRiskNarrative = "Since you're a student with limited credit history, we don't run a full income-based risk score. We instead recommend secured student products with a low starting limit that help you build credit safely."

func stateContextNote(s *domain.Session) string {
	income := "not collected"
	if s.IncomeRecorded() {
		income = fmt.Sprintf("₹%.0f/month", *s.MonthlyIncome)
	}
	employment := s.EmploymentType
	if employment == "" {
		employment = "unknown"
	}
	return fmt.Sprintf(
		"Current applicant state: employment=%s, income=%s, documents_verified=%t, face_verified=%t, account_finalized=%t. Ask only for what is still missing.",
		employment, income, s.DocumentsVerified, s.FaceVerified, s.Finalized,
	)
}
