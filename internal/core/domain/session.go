package domain

import (
	"time"

	"github.com/google/uuid"
)

// OnboardingStep is a custom type for the session state machine ENUM
type OnboardingStep string

const (
	StepChat           OnboardingStep = "chat"
	StepAwaitingIncome OnboardingStep = "awaiting_income"
	StepAwaitingFace   OnboardingStep = "awaiting_face"
	StepAwaitingEmail  OnboardingStep = "awaiting_email"
	StepDone           OnboardingStep = "done"
)

// ChatRole tags a transcript entry.
type ChatRole string

const (
	RoleSystem    ChatRole = "system"
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// TranscriptEntry is one turn of the onboarding conversation.
type TranscriptEntry struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// Session is the single mutable record for one active onboarding chat.
// It lives only in memory and is destroyed when the chat view closes.
type Session struct {
	ID uuid.UUID

	Step              OnboardingStep
	EmploymentType    string   // set exactly once, first detection wins
	MonthlyIncome     *float64 // nil until collected
	DocumentsVerified bool
	FaceVerified      bool
	Risk              *RiskResult // nil until scored

	// Assigned once, at finalization.
	AccountNumber string
	IFSC          string
	AccountType   string
	Finalized     bool

	Transcript []TranscriptEntry

	// Busy guards against a second in-flight request mutating the
	// same session. Checked-and-set under the store lock.
	Busy bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSession returns a fresh session in the default free-chat step.
func NewSession() *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.New(),
		Step:      StepChat,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy so callers never share mutable state with
// the store.
func (s *Session) Clone() *Session {
	c := *s
	if s.MonthlyIncome != nil {
		income := *s.MonthlyIncome
		c.MonthlyIncome = &income
	}
	if s.Risk != nil {
		risk := *s.Risk
		c.Risk = &risk
	}
	c.Transcript = append([]TranscriptEntry(nil), s.Transcript...)
	return &c
}

// IncomeRecorded reports whether a monthly income has been collected.
// Students never provide one.
func (s *Session) IncomeRecorded() bool {
	return s.MonthlyIncome != nil
}

// IsStudent reports whether the detected employment type is student.
func (s *Session) IsStudent() bool {
	return s.EmploymentType == "student"
}

// ReadyToFinalize reports whether every required step is satisfied.
func (s *Session) ReadyToFinalize() bool {
	if s.Finalized {
		return false
	}
	if !s.DocumentsVerified || !s.FaceVerified {
		return false
	}
	if s.EmploymentType == "" {
		return false
	}
	// Students skip income collection entirely.
	return s.IsStudent() || s.IncomeRecorded()
}
