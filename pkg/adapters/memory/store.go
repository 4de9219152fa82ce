package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/codemaster-ai/codemaster/pkg/domain"
)

// Store implements ports.SessionStore in memory.
// Safe for concurrent use. Sessions are deep-copied on both read and write so
// callers can never mutate stored state through a shared pointer.
type Store struct {
	mu      sync.RWMutex
	data    map[string]*domain.Session
	current string
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Session),
	}
}

// Create persists a new session and marks it as current.
func (s *Store) Create(ctx context.Context, name string) (*domain.Session, error) {
	session := domain.NewSession(name)

	s.mu.Lock()
	defer s.mu.Unlock()
	copied, err := clone(session)
	if err != nil {
		return nil, err
	}
	s.data[session.ID] = copied
	s.current = session.ID
	return session, nil
}

// Current returns the current session.
func (s *Store) Current(ctx context.Context) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == "" {
		return nil, domain.ErrNoActiveSession
	}
	session, ok := s.data[s.current]
	if !ok {
		return nil, domain.ErrNoActiveSession
	}
	return clone(session)
}

// Save persists the session.
func (s *Store) Save(ctx context.Context, session *domain.Session) error {
	copied, err := clone(session)
	if err != nil {
		return err
	}
	copied.UpdatedAt = time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[session.ID] = copied
	return nil
}

// Get retrieves a session by ID.
func (s *Store) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return clone(session)
}

// List returns all stored session IDs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}

// Delete removes the session, clearing the current marker if it pointed here.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, sessionID)
	if s.current == sessionID {
		s.current = ""
	}
	return nil
}

// clone deep-copies a session via JSON, mirroring what durable stores do.
func clone(session *domain.Session) (*domain.Session, error) {
	raw, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("failed to copy session: %w", err)
	}
	var out domain.Session
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to copy session: %w", err)
	}
	return &out, nil
}
