package stanza_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/stanza"
	"github.com/aretw0/stanza/pkg/adapters/file"
	"github.com/aretw0/stanza/pkg/domain"
	"github.com/aretw0/stanza/pkg/verse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ReadsChainDirectory(t *testing.T) {
	dir := t.TempDir()
	doc := `{"__id__":"p1","winter":{"light":{},"rain":{}},"summer":{"heat":{}}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, file.ChainFile("seasons")), []byte(doc), 0o644))

	var loads int
	eng := stanza.New(dir,
		stanza.WithSeed(3),
		stanza.WithPool(domain.Pool{All: []string{"seasons"}}),
		stanza.WithAttribution(verse.NewHistorical()),
		stanza.WithLifecycleHooks(domain.LifecycleHooks{
			OnChainLoad: func(ctx context.Context, e *domain.ChainEvent) { loads++ },
		}),
	)
	ctx := context.Background()

	ids, err := eng.Chains(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"seasons"}, ids)

	state, err := eng.Start(ctx, "", "")
	require.NoError(t, err)
	assert.False(t, state.Fallback)
	assert.Equal(t, "seasons", state.ChainID)
	assert.Equal(t, "p1", state.PoemID)
	assert.ElementsMatch(t, []string{"winter", "summer", "..."}, state.Options)
	assert.Equal(t, 1, loads)

	state, err = eng.Choose(ctx, state, "summer")
	require.NoError(t, err)

	stored := &domain.State{
		SessionID: state.SessionID,
		ChainID:   state.ChainID,
		Status:    state.Status,
		Sentence:  state.Sentence,
		Options:   state.Options,
	}
	resumed, err := eng.Resume(ctx, stored)
	require.NoError(t, err)
	assert.True(t, resumed.Hydrated())

	done, err := eng.Choose(ctx, resumed, resumed.Options[0])
	require.NoError(t, err)
	turn := eng.Render(done)
	require.True(t, turn.Terminal)
	assert.NotEmpty(t, turn.Poem.Author)

	again, err := eng.Restart(ctx, done, "")
	require.NoError(t, err)
	assert.Equal(t, state.SessionID, again.SessionID)
	assert.Equal(t, domain.StatusChoosing, again.Status)

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	assert.NoError(t, eng.Watch(watchCtx))
	assert.IsType(t, &file.Loader{}, eng.Loader())
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, stanza.Version)
	assert.NotContains(t, stanza.Version, "\n")
}
