package domain

import "time"

// SessionStatus is the published snapshot of a debug session.
// It is what status stores persist and what the admin surfaces expose.
type SessionStatus struct {
	ID        string        `json:"id"`
	Build     string        `json:"build"`
	State     SuspendState  `json:"state"`
	Reason    SuspendReason `json:"reason,omitempty"`
	Target    string        `json:"target,omitempty"`
	Location  Location      `json:"location,omitempty"`
	Depth     int           `json:"depth"`
	Error     string        `json:"error,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// NewSessionStatus creates a running status for a new session.
func NewSessionStatus(id, build string) *SessionStatus {
	now := time.Now()
	return &SessionStatus{
		ID:        id,
		Build:     build,
		State:     StateRunning,
		StartedAt: now,
		UpdatedAt: now,
	}
}
