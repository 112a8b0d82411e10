package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStatusStoreContract runs a suite of tests to verify that a StatusStore implementation
// adheres to the defined interface contract.
func RunStatusStoreContract(t *testing.T, store StatusStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		status := domain.NewSessionStatus(sessionID, "demo")
		status.State = domain.StateSuspended
		status.Reason = domain.ReasonBreakpoint
		status.Target = "compile"
		status.Location = domain.Location{File: "build.yaml", Line: 12}
		status.Depth = 2

		err := store.Save(ctx, sessionID, status)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, status.ID, loaded.ID)
		assert.Equal(t, domain.StateSuspended, loaded.State)
		assert.Equal(t, domain.ReasonBreakpoint, loaded.Reason)
		assert.Equal(t, status.Location, loaded.Location)
		assert.Equal(t, 2, loaded.Depth)
		assert.True(t, status.StartedAt.Equal(loaded.StartedAt), "timestamps survive persistence")
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		status := domain.NewSessionStatus(sessionID, "demo")
		require.NoError(t, store.Save(ctx, sessionID, status))

		status.State = domain.StateTerminated
		status.Error = "debug connection lost"
		require.NoError(t, store.Save(ctx, sessionID, status))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, domain.StateTerminated, loaded.State)
		assert.Equal(t, "debug connection lost", loaded.Error)
	})

	t.Run("Load Returns Copy", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, domain.NewSessionStatus(sessionID, "demo")))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		loaded.Build = "mutated"

		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "demo", again.Build)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewSessionStatus(sessionID, "demo"))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")

		err = store.Delete(ctx, sessionID)
		assert.NoError(t, err, "Delete of a missing session is a no-op")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewSessionStatus(id1, "demo"))
		_ = store.Save(ctx, id2, domain.NewSessionStatus(id2, "demo"))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
