package ports

import (
	"context"

	"github.com/aretw0/waypoint/pkg/domain"
)

// StatusStore defines the interface for publishing session status snapshots.
// A session writes to it on build start, on every suspend and resume, and on shutdown.
type StatusStore interface {
	// Save persists the status for a given session ID, replacing any previous one.
	Save(ctx context.Context, sessionID string, status *domain.SessionStatus) error

	// Load retrieves the status for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.SessionStatus, error)

	// Delete removes the status for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of all known sessions.
	List(ctx context.Context) ([]string, error)
}
