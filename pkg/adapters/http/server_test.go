package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/waypoint/pkg/adapters/memory"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) (http.Handler, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()

	suspended := domain.NewSessionStatus("s1", "release")
	suspended.State = domain.StateSuspended
	suspended.Reason = domain.ReasonBreakpoint
	suspended.Location = domain.Location{File: "build.yaml", Line: 12}
	require.NoError(t, store.Save(ctx, "s1", suspended))
	require.NoError(t, store.Save(ctx, "s2", domain.NewSessionStatus("s2", "docs")))

	reg := prometheus.NewRegistry()
	observability.NewMetrics(reg).Suspended(domain.ReasonBreakpoint)

	return NewHandler(store, WithGatherer(reg)), store
}

func serve(h http.Handler, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	h, _ := newTestHandler(t)
	rr := serve(h, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestInfo(t *testing.T) {
	h, _ := newTestHandler(t)
	rr := serve(h, http.MethodGet, "/info")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "waypoint", resp["app"])
	assert.NotEmpty(t, resp["version"])
}

func TestListSessions(t *testing.T) {
	h, _ := newTestHandler(t)
	rr := serve(h, http.MethodGet, "/sessions")
	require.Equal(t, http.StatusOK, rr.Code)

	var statuses []domain.SessionStatus
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &statuses))
	require.Len(t, statuses, 2)
	assert.Equal(t, "s1", statuses[0].ID)
	assert.Equal(t, domain.StateSuspended, statuses[0].State)
}

func TestGetSession(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := serve(h, http.MethodGet, "/sessions/s1")
	require.Equal(t, http.StatusOK, rr.Code)
	var status domain.SessionStatus
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &status))
	assert.Equal(t, domain.ReasonBreakpoint, status.Reason)
	assert.Equal(t, 12, status.Location.Line)

	rr = serve(h, http.MethodGet, "/sessions/missing")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeleteSession(t *testing.T) {
	h, store := newTestHandler(t)

	rr := serve(h, http.MethodDelete, "/sessions/s2")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	_, err := store.Load(context.Background(), "s2")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestMetrics(t *testing.T) {
	h, _ := newTestHandler(t)
	rr := serve(h, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), `waypoint_suspensions_total{reason="BREAKPOINT"} 1`))
}
