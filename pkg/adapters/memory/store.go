package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/waypoint/pkg/domain"
)

// Store implements ports.StatusStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]domain.SessionStatus
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]domain.SessionStatus),
	}
}

// Save keeps a copy of the status.
func (s *Store) Save(ctx context.Context, sessionID string, status *domain.SessionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionID] = *status
	return nil
}

// Load returns a copy so callers can't mutate store state through the pointer.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.SessionStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status, ok := s.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &status, nil
}

// Delete removes the status.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// List returns known sessions, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]string, 0, len(s.data))
	for id := range s.data {
		sessions = append(sessions, id)
	}
	sort.Strings(sessions)
	return sessions, nil
}
