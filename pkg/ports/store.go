package ports

import (
	"context"

	"github.com/codemaster-ai/codemaster/pkg/domain"
)

// SessionStore defines the interface for persisting sessions.
// The store tracks which session is "current": the one the single-agent
// workflow operates on between create_session and end_session.
type SessionStore interface {
	// Create persists a new session and marks it as current.
	Create(ctx context.Context, name string) (*domain.Session, error)

	// Current returns the current session, or domain.ErrNoActiveSession
	// when none has been created.
	Current(ctx context.Context) (*domain.Session, error)

	// Save persists the session. Saving a session that is current keeps it
	// current.
	Save(ctx context.Context, session *domain.Session) error

	// Get retrieves a session by ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Get(ctx context.Context, sessionID string) (*domain.Session, error)

	// List returns the IDs of all stored sessions.
	List(ctx context.Context) ([]string, error)

	// Delete removes the session. Deleting the current session clears the
	// current marker.
	Delete(ctx context.Context, sessionID string) error
}
