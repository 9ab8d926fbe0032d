package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindshifting/mindshift/pkg/domain"
)

// RunSessionStoreContract runs a suite of tests to verify that a
// SessionStore implementation adheres to the interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.NewState(sessionID, "user-1")
		state.FirstName = "Ada"
		state.AppendSystem("Welcome to Mind Shifting.", time.Now().UTC())
		state.Stats.ScriptedCount = 1
		state.Revision = 3

		err := store.Save(ctx, sessionID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, state.CurrentStep, loaded.CurrentStep)
		assert.Equal(t, "Ada", loaded.FirstName)
		assert.Equal(t, int64(3), loaded.Revision)
		require.Len(t, loaded.Transcript, 1)
		assert.Equal(t, domain.SpeakerSystem, loaded.Transcript[0].Speaker)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Save Isolation", func(t *testing.T) {
		// Mutating a state after Save must not leak into the store.
		state := domain.NewState(sessionID+"-iso", "user-1")
		require.NoError(t, store.Save(ctx, sessionID+"-iso", state))

		state.CurrentStep = domain.StepSessionComplete
		state.AppendUser("late mutation", time.Now().UTC())

		loaded, err := store.Load(ctx, sessionID+"-iso")
		require.NoError(t, err)
		assert.Equal(t, domain.StepMindShiftingExplanation, loaded.CurrentStep)
		assert.Empty(t, loaded.Transcript)

		_ = store.Delete(ctx, sessionID+"-iso")
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewState(sessionID, "user-1"))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewState(id1, "user-1"))
		_ = store.Save(ctx, id2, domain.NewState(id2, "user-2"))

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
