package ports

import "context"

// DeliverabilityVerdict is the structured validity reply of the
// external email/phone validation capability.
type DeliverabilityVerdict struct {
	Valid  bool
	Reason string
}

// DeliverabilityChecker is a best-effort outbound port. Infrastructure
// failure must never block onboarding: callers treat an error as an
// unknown-but-acceptable verdict (fail-open).
type DeliverabilityChecker interface {
	CheckEmail(ctx context.Context, address string) (*DeliverabilityVerdict, error)
	CheckPhone(ctx context.Context, number string) (*DeliverabilityVerdict, error)
}

// Mailer dispatches the account-details email. Failure degrades to a
// user-visible warning and never blocks completion of onboarding.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
