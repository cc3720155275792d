package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/stanza/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStateStoreContract runs a suite of tests to verify that a StateStore implementation
// adheres to the defined interface contract.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.NewState(sessionID, "there")
		state.Status = domain.StatusChoosing
		state.Sentence = []string{"there", "is"}
		state.PoemID = "p-17"
		state.Options = []string{"a", "no", "..."}
		state.Chain = domain.NewNode()
		state.Current = state.Chain

		err := store.Save(ctx, sessionID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, "there", loaded.ChainID)
		assert.Equal(t, domain.StatusChoosing, loaded.Status)
		assert.Equal(t, []string{"there", "is"}, loaded.Sentence)
		assert.Equal(t, []string{"a", "no", "..."}, loaded.Options)
		assert.Equal(t, "p-17", loaded.PoemID)
		// Node references are runtime-only and must be rebuilt by the engine.
		assert.False(t, loaded.Hydrated())
	})

	t.Run("Save Finished Poem", func(t *testing.T) {
		state := domain.NewState(sessionID, "when")
		state.Status = domain.StatusDone
		state.Sentence = []string{"when", "the"}
		state.Poem = &domain.Poem{
			ChainID:    "when",
			UserPath:   "when the",
			Completion: []string{"night"},
			Lines:      []string{"when the night"},
			Title:      `"When night"`,
		}
		require.NoError(t, store.Save(ctx, sessionID, state))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		require.NotNil(t, loaded.Poem)
		assert.Equal(t, state.Poem.Lines, loaded.Poem.Lines)
		assert.Equal(t, state.Poem.Completion, loaded.Poem.Completion)
		assert.Equal(t, state.Poem.Title, loaded.Poem.Title)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewState(sessionID, "the"))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewState(id1, "the"))
		_ = store.Save(ctx, id2, domain.NewState(id2, "the"))

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
