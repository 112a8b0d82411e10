package observability

import (
	"time"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the session collectors.
type Metrics struct {
	decisionPoints *prometheus.CounterVec
	suspensions    *prometheus.CounterVec
	commands       *prometheus.CounterVec
	suspended      prometheus.Histogram
	breakpoints    prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on reg.
// A nil registerer leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		decisionPoints: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "waypoint_decision_points_total",
				Help: "Decision points evaluated, by kind",
			},
			[]string{"point"},
		),
		suspensions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "waypoint_suspensions_total",
				Help: "Times the build was suspended, by reason",
			},
			[]string{"reason"},
		),
		commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "waypoint_commands_total",
				Help: "Client commands received, by keyword",
			},
			[]string{"command"},
		),
		suspended: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "waypoint_suspended_seconds",
				Help:    "Time the build spent suspended per suspension",
				Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300, 1800},
			},
		),
		breakpoints: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "waypoint_breakpoints",
				Help: "Breakpoints currently set",
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.decisionPoints, m.suspensions, m.commands, m.suspended, m.breakpoints)
	}
	return m
}

// DecisionPoint counts one evaluated decision point.
func (m *Metrics) DecisionPoint(kind domain.PointKind) {
	if m == nil {
		return
	}
	m.decisionPoints.WithLabelValues(string(kind)).Inc()
}

// Suspended counts one suspension.
func (m *Metrics) Suspended(reason domain.SuspendReason) {
	if m == nil {
		return
	}
	m.suspensions.WithLabelValues(string(reason)).Inc()
}

// Resumed records how long the build was blocked.
func (m *Metrics) Resumed(d time.Duration) {
	if m == nil {
		return
	}
	m.suspended.Observe(d.Seconds())
}

// Command counts one received command.
func (m *Metrics) Command(keyword string) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(keyword).Inc()
}

// Breakpoints sets the breakpoint gauge.
func (m *Metrics) Breakpoints(n int) {
	if m == nil {
		return
	}
	m.breakpoints.Set(float64(n))
}
