package observability

import (
	"testing"
	"time"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.DecisionPoint(domain.PointTaskStart)
	m.DecisionPoint(domain.PointTaskStart)
	m.Suspended(domain.ReasonBreakpoint)
	m.Command("STEP_OVER")
	m.Breakpoints(3)
	m.Resumed(2 * time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.decisionPoints.WithLabelValues("task_start")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.suspensions.WithLabelValues("BREAKPOINT")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.commands.WithLabelValues("STEP_OVER")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.breakpoints))

	count, err := testutil.GatherAndCount(reg, "waypoint_suspended_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.DecisionPoint(domain.PointBuildStart)
		m.Suspended(domain.ReasonStep)
		m.Command("RESUME")
		m.Breakpoints(1)
		m.Resumed(time.Second)
	})
}
