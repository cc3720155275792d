package runtime_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/aretw0/stanza/internal/runtime"
	"github.com/aretw0/stanza/pkg/adapters/memory"
	"github.com/aretw0/stanza/pkg/choice"
	"github.com/aretw0/stanza/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingLoader records how often each chain is fetched.
type countingLoader struct {
	*memory.Loader
	calls atomic.Int32
}

func (c *countingLoader) LoadChain(ctx context.Context, id string) ([]byte, error) {
	c.calls.Add(1)
	return c.Loader.LoadChain(ctx, id)
}

// gatedLoader holds every fetch until release is closed.
type gatedLoader struct {
	countingLoader
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedLoader) LoadChain(ctx context.Context, id string) ([]byte, error) {
	g.once.Do(func() { close(g.entered) })
	select {
	case <-g.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return g.countingLoader.LoadChain(ctx, id)
}

func newEngine(t *testing.T, docs map[string]string, opts ...runtime.EngineOption) *runtime.Engine {
	t.Helper()
	opts = append([]runtime.EngineOption{runtime.WithRand(choice.Seeded(1))}, opts...)
	return runtime.NewEngine(memory.NewLoader(docs), opts...)
}

func choose(t *testing.T, e *runtime.Engine, s *domain.State, word string) *domain.State {
	t.Helper()
	next, err := e.Choose(context.Background(), s, word)
	require.NoError(t, err, "choosing %q from %v", word, s.Options)
	return next
}

func TestEngine_FallbackTraversal(t *testing.T) {
	e := newEngine(t, nil)
	ctx := context.Background()

	s, err := e.Start(ctx, "s1", "there")
	require.NoError(t, err)
	assert.True(t, s.Fallback)
	assert.Equal(t, "there", s.ChainID)
	assert.Equal(t, domain.StatusChoosing, s.Status)
	assert.Equal(t, []string{"the"}, s.Sentence)
	assert.Equal(t, []string{"quick", "slow", "..."}, s.Options)

	s = choose(t, e, s, "quick")
	assert.Equal(t, []string{"the", "quick"}, s.Sentence)
	assert.Equal(t, []string{"brown", "silver", "..."}, s.Options)

	s = choose(t, e, s, "brown")
	assert.Equal(t, []string{"fox", "dog", "cat"}, s.Options)

	s = choose(t, e, s, "fox")
	require.Equal(t, domain.StatusDone, s.Status)
	require.NotNil(t, s.Poem)
	assert.Equal(t, "the quick brown", s.Poem.UserPath)
	assert.Equal(t, "fox", s.Poem.Ending)
	assert.Empty(t, s.Poem.Completion)
	assert.Equal(t, []string{"the quick brown fox"}, s.Poem.Lines)
	assert.Equal(t, `"Quick brown"`, s.Poem.Title)
	assert.Empty(t, s.Poem.Author)
	assert.Empty(t, s.Options)
}

func TestEngine_SingleKeyChain(t *testing.T) {
	e := newEngine(t, map[string]string{"a": `{"a": {"__keys__": ["x"]}}`})
	ctx := context.Background()

	s, err := e.Start(ctx, "s", "a")
	require.NoError(t, err)
	assert.False(t, s.Fallback)
	assert.Equal(t, []string{"a"}, s.Sentence)
	assert.Equal(t, []string{"x", "...", "—"}, s.Options)

	s = choose(t, e, s, "x")
	assert.Equal(t, domain.StatusDone, s.Status)
	assert.Equal(t, "x", s.Poem.Ending)
	assert.Equal(t, "a x", s.Poem.Text())
}

func TestEngine_LowBranchingCompletesEarly(t *testing.T) {
	doc := `{"one": {"two": {"three": {"four": {"five": {"six": {}}}}, "tri": {}}, "deux": {}}}`
	e := newEngine(t, map[string]string{"one": doc})
	ctx := context.Background()

	s, err := e.Start(ctx, "s", "one")
	require.NoError(t, err)
	s = choose(t, e, s, "two")
	s = choose(t, e, s, "three")
	// Three words is still too short to stop, even with a single way on.
	assert.Equal(t, domain.StatusChoosing, s.Status)
	assert.Equal(t, []string{"four", "...", "—"}, s.Options)

	s = choose(t, e, s, "four")
	require.Equal(t, domain.StatusDone, s.Status)
	assert.Equal(t, "one two three four", s.Poem.UserPath)
	assert.Equal(t, []string{"five", "six"}, s.Poem.Completion)
	assert.Equal(t, "one two three four five six", s.Poem.Text())
}

func TestEngine_EarlyCompletionThresholds(t *testing.T) {
	doc := `{"one": {"two": {"three": {"four": {}}, "tri": {}}, "deux": {}}}`
	e := newEngine(t, map[string]string{"one": doc}, runtime.WithEarlyCompletion(1, 2))
	ctx := context.Background()

	s, err := e.Start(ctx, "s", "one")
	require.NoError(t, err)
	s = choose(t, e, s, "two")
	s = choose(t, e, s, "three")
	assert.Equal(t, domain.StatusDone, s.Status)
	assert.Equal(t, []string{"four"}, s.Poem.Completion)
}

func TestEngine_MarkerEndsTraversal(t *testing.T) {
	e := newEngine(t, nil)
	s, err := e.Start(context.Background(), "s", "fallback")
	require.NoError(t, err)

	s = choose(t, e, s, "slow")
	assert.Equal(t, []string{"gentle", "...", "—"}, s.Options)

	s = choose(t, e, s, "—")
	require.Equal(t, domain.StatusDone, s.Status)
	assert.Equal(t, "—", s.Poem.Marker)
	assert.Equal(t, []string{"gentle"}, s.Poem.Completion)
	assert.Equal(t, "the slow gentle", s.Poem.Text())
}

func TestEngine_DeadEndAtStart(t *testing.T) {
	e := newEngine(t, map[string]string{
		"stop":  `{"stop": {}}`,
		"empty": `{}`,
	})
	ctx := context.Background()

	s, err := e.Start(ctx, "s", "stop")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, s.Status)
	assert.Equal(t, "stop", s.Poem.Text())

	s, err = e.Start(ctx, "s", "empty")
	require.NoError(t, err)
	assert.False(t, s.Fallback)
	assert.Equal(t, domain.StatusDone, s.Status)
	assert.Equal(t, "Untitled", s.Poem.Title)
}

func TestEngine_MalformedDocumentsFallBack(t *testing.T) {
	e := newEngine(t, map[string]string{
		"array":   `["not", "a", "tree"]`,
		"garbage": `{"the": `,
	})
	for _, id := range []string{"array", "garbage", "missing"} {
		s, err := e.Start(context.Background(), "s", id)
		require.NoError(t, err, id)
		assert.True(t, s.Fallback, id)
		assert.Equal(t, []string{"the"}, s.Sentence, id)
	}
}

func TestEngine_ChooseErrors(t *testing.T) {
	e := newEngine(t, nil)
	ctx := context.Background()
	s, err := e.Start(ctx, "s", "fallback")
	require.NoError(t, err)

	_, err = e.Choose(ctx, s, "fast")
	assert.ErrorIs(t, err, domain.ErrNotOffered)

	_, err = e.Choose(ctx, nil, "quick")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	done := choose(t, e, s, "...")
	_, err = e.Choose(ctx, done, "quick")
	assert.ErrorIs(t, err, domain.ErrTraversalDone)

	loading := domain.NewState("s", "fallback")
	_, err = e.Choose(ctx, loading, "quick")
	assert.ErrorIs(t, err, domain.ErrTraversalDone)
}

func TestEngine_ChooseLeavesInputUntouched(t *testing.T) {
	e := newEngine(t, nil)
	s, err := e.Start(context.Background(), "s", "fallback")
	require.NoError(t, err)
	before := s.Snapshot()

	_ = choose(t, e, s, "quick")
	assert.Equal(t, before.Sentence, s.Sentence)
	assert.Equal(t, before.Options, s.Options)
	assert.Same(t, before.Current, s.Current)
}

func TestEngine_PoemID(t *testing.T) {
	doc := `{"there": {"is": {"__id__": "p9", "a": {"__id__": "p10", "b": {}, "c": {}}, "no": {}}, "was": {}}}`
	e := newEngine(t, map[string]string{"there": doc})
	ctx := context.Background()

	s, err := e.Start(ctx, "s", "there")
	require.NoError(t, err)
	assert.Empty(t, s.PoemID)

	s = choose(t, e, s, "is")
	assert.Equal(t, "p9", s.PoemID)

	s = choose(t, e, s, "a")
	assert.Equal(t, "p9", s.PoemID, "first id along the path wins")
}

func TestEngine_StartPicksPreferredChain(t *testing.T) {
	e := newEngine(t, nil)
	for i := 0; i < 20; i++ {
		s, err := e.Start(context.Background(), "", "")
		require.NoError(t, err)
		assert.NotEmpty(t, s.SessionID)
		assert.Contains(t, domain.DefaultPool().Preferred, s.ChainID)
	}
}

func TestEngine_Restart(t *testing.T) {
	e := newEngine(t, map[string]string{"a": `{"a": {"__keys__": ["x"]}}`})
	ctx := context.Background()

	s, err := e.Start(ctx, "keep-me", "a")
	require.NoError(t, err)
	s = choose(t, e, s, "x")
	require.Equal(t, domain.StatusDone, s.Status)

	fresh, err := e.Restart(ctx, s, "a")
	require.NoError(t, err)
	assert.Equal(t, "keep-me", fresh.SessionID)
	assert.Equal(t, domain.StatusChoosing, fresh.Status)
	assert.Nil(t, fresh.Poem)
}

func TestEngine_Resume(t *testing.T) {
	e := newEngine(t, map[string]string{"one": `{"one": {"two": {"three": {}, "tre": {}}, "deux": {}}}`})
	ctx := context.Background()
	store := memory.NewStore()

	s, err := e.Start(ctx, "s", "one")
	require.NoError(t, err)
	s = choose(t, e, s, "two")
	require.NoError(t, store.Save(ctx, "s", s))

	loaded, err := store.Load(ctx, "s")
	require.NoError(t, err)
	require.False(t, loaded.Hydrated())

	// Choose resumes on its own.
	done := choose(t, e, loaded, loaded.Options[0])
	assert.Equal(t, domain.StatusDone, done.Status)

	resumed, err := e.Resume(ctx, loaded)
	require.NoError(t, err)
	assert.True(t, resumed.Hydrated())
}

func TestEngine_ResumeFallbackAndStalePath(t *testing.T) {
	loader := memory.NewLoader(map[string]string{"one": `{"one": {"two": {"x": {}, "y": {}}, "deux": {}}}`})
	e := runtime.NewEngine(loader, runtime.WithRand(choice.Seeded(3)))
	ctx := context.Background()

	fb, err := e.Start(ctx, "s", "gone")
	require.NoError(t, err)
	fb.Chain, fb.Current = nil, nil
	resumed, err := e.Resume(ctx, fb)
	require.NoError(t, err)
	assert.True(t, resumed.Hydrated())

	s, err := e.Start(ctx, "s", "one")
	require.NoError(t, err)
	s = choose(t, e, s, "two")
	s.Chain, s.Current = nil, nil

	// The chain is edited under the session's feet.
	loader.Put("one", []byte(`{"one": {"deux": {}}}`))
	e.Purge("one")

	_, err = e.Resume(ctx, s)
	assert.ErrorIs(t, err, domain.ErrInvalidChain)
}

func TestEngine_CacheCollapsesLoads(t *testing.T) {
	loader := &countingLoader{Loader: memory.NewLoader(map[string]string{"in": `{"in": {"the": {}, "a": {}}}`})}
	e := runtime.NewEngine(loader, runtime.WithRand(choice.Seeded(5)))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := e.Start(ctx, "", "in")
			assert.NoError(t, err)
			assert.False(t, s.Fallback)
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, loader.calls.Load())

	e.Purge()
	_, err := e.Start(ctx, "", "in")
	require.NoError(t, err)
	assert.EqualValues(t, 2, loader.calls.Load())
}

func TestEngine_CanceledCallerDoesNotFailSharedLoad(t *testing.T) {
	loader := &gatedLoader{
		countingLoader: countingLoader{Loader: memory.NewLoader(map[string]string{"in": `{"in": {"the": {}, "a": {}}}`})},
		entered:        make(chan struct{}),
		release:        make(chan struct{}),
	}
	e := runtime.NewEngine(loader, runtime.WithRand(choice.Seeded(5)))

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := e.Start(ctxA, "a", "in")
		errA <- err
	}()
	<-loader.entered
	cancelA()
	assert.ErrorIs(t, <-errA, context.Canceled)

	type result struct {
		state *domain.State
		err   error
	}
	resB := make(chan result, 1)
	go func() {
		s, err := e.Start(context.Background(), "b", "in")
		resB <- result{s, err}
	}()
	close(loader.release)

	b := <-resB
	require.NoError(t, b.err)
	assert.False(t, b.state.Fallback)
	assert.Equal(t, []string{"in"}, b.state.Sentence)
	assert.EqualValues(t, 1, loader.calls.Load())
}

func TestEngine_CanceledContext(t *testing.T) {
	e := newEngine(t, map[string]string{"in": `{"in": {}}`})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Start(ctx, "s", "in")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_Hooks(t *testing.T) {
	var loads, choices, completes []string
	hooks := domain.LifecycleHooks{
		OnChainLoad: func(_ context.Context, ev *domain.ChainEvent) {
			loads = append(loads, ev.ChainID)
			assert.True(t, ev.Fallback)
			assert.Equal(t, 7, ev.Nodes)
			assert.Error(t, ev.Err)
		},
		OnChoice: func(_ context.Context, ev *domain.ChoiceEvent) {
			choices = append(choices, ev.Word)
			assert.Equal(t, domain.EventChoice, ev.Type)
		},
		OnComplete: func(_ context.Context, ev *domain.PoemEvent) {
			completes = append(completes, ev.Reason)
			assert.NotNil(t, ev.Poem)
		},
	}
	e := newEngine(t, nil, runtime.WithLifecycleHooks(hooks))
	ctx := context.Background()

	s, err := e.Start(ctx, "s", "what")
	require.NoError(t, err)
	s = choose(t, e, s, "quick")
	_ = choose(t, e, s, "...")

	assert.Equal(t, []string{"what"}, loads)
	assert.Equal(t, []string{"quick", "..."}, choices)
	assert.Equal(t, []string{"marker"}, completes)
}

func TestEngine_ChainsAndDocument(t *testing.T) {
	e := newEngine(t, map[string]string{"b": `{"b": {}}`, "a": `{"a": {}}`})
	ctx := context.Background()

	ids, err := e.Chains(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	doc, err := e.Document(ctx, "a")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": {}}`, string(doc))

	doc, err = e.Document(ctx, domain.FallbackChainID)
	require.NoError(t, err)
	assert.Contains(t, string(doc), `"quick"`)

	_, err = e.Document(ctx, "zzz")
	assert.ErrorIs(t, err, domain.ErrChainNotFound)

	bare := runtime.NewEngine(nil)
	ids, err = bare.Chains(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPool().All, ids)
	assert.Error(t, bare.Watch(ctx))
}

func TestEngine_Render(t *testing.T) {
	e := newEngine(t, nil)
	s, err := e.Start(context.Background(), "s", "fallback")
	require.NoError(t, err)

	turn := e.Render(s)
	assert.False(t, turn.Terminal)
	assert.Equal(t, s.Options, turn.Options)

	turn = e.Render(choose(t, e, s, "..."))
	assert.True(t, turn.Terminal)
	require.NotNil(t, turn.Poem)
	assert.Empty(t, turn.Options)
}
