package memstore

import (
	"context"
	"sync"

	"ArthaOnboard/internal/core/domain"
	"ArthaOnboard/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// sessionStore keeps onboarding sessions in process memory only. A
// session exists for exactly as long as its chat view is open; nothing
// is ever written to durable storage.
type sessionStore struct {
	log      zerolog.Logger
	mu       sync.Mutex
	sessions map[uuid.UUID]*domain.Session
}

var _ ports.SessionStore = (*sessionStore)(nil)

// NewSessionStore creates an empty in-memory session store.
func NewSessionStore(baseLogger *zerolog.Logger) ports.SessionStore {
	return &sessionStore{
		log:      baseLogger.With().Str("component", "session_store").Logger(),
		sessions: make(map[uuid.UUID]*domain.Session),
	}
}

func (s *sessionStore) Create(ctx context.Context) (*domain.Session, error) {
	session := domain.NewSession()

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	s.log.Info().Str("session_id", session.ID.String()).Msg("Session created")
	return session.Clone(), nil
}

func (s *sessionStore) Get(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ports.ErrSessionNotFound
	}
	return session.Clone(), nil
}

// Acquire sets the busy flag under the lock so at most one request per
// session ever holds a mutable copy.
func (s *sessionStore) Acquire(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ports.ErrSessionNotFound
	}
	if session.Busy {
		return nil, ports.ErrSessionBusy
	}
	session.Busy = true
	return session.Clone(), nil
}

// Release writes back the mutated session and clears the busy flag. If
// the session was deleted while the request was in flight, the late
// result is dropped.
func (s *sessionStore) Release(ctx context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.sessions[session.ID]
	if !ok {
		s.log.Debug().Str("session_id", session.ID.String()).Msg("Dropping late result for closed session")
		return nil
	}

	updated := session.Clone()
	updated.Busy = false
	updated.CreatedAt = current.CreatedAt
	s.sessions[session.ID] = updated
	return nil
}

func (s *sessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ports.ErrSessionNotFound
	}
	delete(s.sessions, id)
	s.log.Info().Str("session_id", id.String()).Msg("Session destroyed")
	return nil
}
