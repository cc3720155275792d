package stanza

import (
	"context"
	"log/slog"

	"github.com/aretw0/stanza/internal/runtime"
	"github.com/aretw0/stanza/pkg/adapters/file"
	"github.com/aretw0/stanza/pkg/choice"
	"github.com/aretw0/stanza/pkg/domain"
	"github.com/aretw0/stanza/pkg/ports"
	"github.com/aretw0/stanza/pkg/verse"
)

// Engine is the high-level entry point for the Stanza library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime *runtime.Engine
	loader  ports.ChainLoader
	opts    []runtime.EngineOption
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLoader injects a custom ChainLoader, bypassing the chain directory.
func WithLoader(l ports.ChainLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.opts = append(e.opts, runtime.WithLifecycleHooks(hooks))
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.opts = append(e.opts, runtime.WithLogger(logger))
	}
}

// WithSeed makes option sampling and line breaking reproducible.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.opts = append(e.opts, runtime.WithRand(choice.Seeded(seed)))
	}
}

// WithPool sets the chains a session may be started with.
func WithPool(p domain.Pool) Option {
	return func(e *Engine) {
		e.opts = append(e.opts, runtime.WithPool(p))
	}
}

// WithAttribution sets how finished poems are titled and credited.
func WithAttribution(p verse.AttributionPolicy) Option {
	return func(e *Engine) {
		e.opts = append(e.opts, runtime.WithAttribution(p))
	}
}

// New initializes a new Stanza Engine reading chain_<id>.json files from chainDir.
// With WithLoader, chainDir is ignored and may be empty.
func New(chainDir string, opts ...Option) *Engine {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.loader == nil {
		eng.loader = file.NewLoader(chainDir)
	}
	eng.runtime = runtime.NewEngine(eng.loader, eng.opts...)
	return eng
}

// Start loads a chain into a fresh traversal. Empty IDs are generated or drawn from the pool.
func (e *Engine) Start(ctx context.Context, sessionID, chainID string) (*domain.State, error) {
	return e.runtime.Start(ctx, sessionID, chainID)
}

// Choose applies one offered word to the traversal.
func (e *Engine) Choose(ctx context.Context, state *domain.State, word string) (*domain.State, error) {
	return e.runtime.Choose(ctx, state, word)
}

// Restart begins a new traversal in the same session.
func (e *Engine) Restart(ctx context.Context, state *domain.State, chainID string) (*domain.State, error) {
	return e.runtime.Restart(ctx, state, chainID)
}

// Resume rebuilds a state read back from storage.
func (e *Engine) Resume(ctx context.Context, state *domain.State) (*domain.State, error) {
	return e.runtime.Resume(ctx, state)
}

// Render describes what the host must present for state.
func (e *Engine) Render(state *domain.State) *domain.Turn {
	return e.runtime.Render(state)
}

// Chains lists the known chain IDs.
func (e *Engine) Chains(ctx context.Context) ([]string, error) {
	return e.runtime.Chains(ctx)
}

// Watch purges cached chains when the loader reports changes.
// Returns error if the loader does not support watching.
func (e *Engine) Watch(ctx context.Context) error {
	return e.runtime.Watch(ctx)
}

// Loader returns the underlying ChainLoader used by the engine.
func (e *Engine) Loader() ports.ChainLoader {
	return e.loader
}

// Runtime exposes the engine as a ports.Engine for adapters.
func (e *Engine) Runtime() ports.Engine {
	return e.runtime
}
