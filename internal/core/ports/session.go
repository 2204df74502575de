package ports

import (
	"context"
	"errors"

	"ArthaOnboard/internal/core/domain"

	"github.com/google/uuid"
)

var (
	// ErrSessionNotFound is returned for unknown or already-closed sessions.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionBusy is returned when a second request arrives while an
	// external call for the same session is still in flight.
	ErrSessionBusy = errors.New("session has a request in flight")
)

// SessionStore owns the per-chat onboarding sessions. One record per
// active chat; nothing is ever written to durable storage.
type SessionStore interface {
	Create(ctx context.Context) (*domain.Session, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Session, error)

	// Acquire returns the session with its busy flag set, or
	// ErrSessionBusy if another request holds it. Callers must Release.
	Acquire(ctx context.Context, id uuid.UUID) (*domain.Session, error)

	// Release persists the mutated session and clears the busy flag.
	// Releasing a session that was deleted mid-flight is a no-op: the
	// late result is dropped.
	Release(ctx context.Context, session *domain.Session) error

	Delete(ctx context.Context, id uuid.UUID) error
}
