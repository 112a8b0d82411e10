package session

import (
	"log/slog"

	"github.com/aretw0/waypoint/pkg/debug"
	"github.com/aretw0/waypoint/pkg/observability"
	"github.com/aretw0/waypoint/pkg/ports"
)

// Option configures a Session.
type Option func(*Session)

// WithID sets the session ID. Defaults to a random UUID.
func WithID(id string) Option {
	return func(s *Session) {
		s.id = id
	}
}

// WithLogger configures a logger for the Session.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithStore publishes status snapshots to the given store.
func WithStore(store ports.StatusStore) Option {
	return func(s *Session) {
		s.store = store
	}
}

// WithMetrics records session activity on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Session) {
		s.metrics = m
	}
}

// WithProperties sets the source of PROPERTIES replies.
func WithProperties(src ports.PropertySource) Option {
	return func(s *Session) {
		s.properties = src
	}
}

// WithSuspendAtStart controls whether the build waits for the client at its first
// decision point. Enabled by default.
func WithSuspendAtStart(enabled bool) Option {
	return func(s *Session) {
		s.controllerOpts = append(s.controllerOpts, debug.WithSuspendAtStart(enabled))
	}
}

// WithTargetBreakpoints lets breakpoints on a target's own line suspend at target start.
func WithTargetBreakpoints(enabled bool) Option {
	return func(s *Session) {
		s.controllerOpts = append(s.controllerOpts, debug.WithTargetBreakpoints(enabled))
	}
}
