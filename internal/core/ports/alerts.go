package ports

import (
	"context"

	"ArthaOnboard/internal/core/domain"

	"github.com/google/uuid"
)

// DocumentFlaggedEvent is the payload published on TopicDocumentFlagged
// when a document comes back SUSPICIOUS or LIKELY_FAKE.
type DocumentFlaggedEvent struct {
	SessionID    uuid.UUID
	DocumentType string
	Verdict      domain.DocumentVerdict
	Reason       string
	RiskFlags    []string
}

// AlertNotifier forwards flagged-document events to the ops review
// channel. Best-effort: a notification failure never surfaces to the
// onboarding flow.
type AlertNotifier interface {
	NotifySuspiciousDocument(ctx context.Context, event DocumentFlaggedEvent) error
}
