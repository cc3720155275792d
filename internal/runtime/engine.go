// Package runtime drives word-chain traversals: loading chains, offering
// choices, advancing on the visitor's word and finishing poems.
package runtime

import (
	"log/slog"

	"github.com/aretw0/stanza/internal/logging"
	"github.com/aretw0/stanza/pkg/chain"
	"github.com/aretw0/stanza/pkg/choice"
	"github.com/aretw0/stanza/pkg/domain"
	"github.com/aretw0/stanza/pkg/ports"
	"github.com/aretw0/stanza/pkg/verse"
)

const (
	// DefaultEarlyMaxKeys is the branching at or below which a long enough sentence completes.
	DefaultEarlyMaxKeys = 1
	// DefaultEarlyMinWords is the sentence length from which early completion applies.
	DefaultEarlyMinWords = 4
)

// Engine is the traversal core. It keeps no per-session data: every
// operation receives a State and returns a new one. An Engine is safe for
// concurrent use by many sessions.
type Engine struct {
	loader ports.ChainLoader
	cache  *chainCache

	pool            domain.Pool
	rng             domain.Rand
	attribution     verse.AttributionPolicy
	hooks           domain.LifecycleHooks
	logger          *slog.Logger
	completionDepth int
	earlyMaxKeys    int
	earlyMinWords   int
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithPool sets the chain pool used for random starts.
func WithPool(p domain.Pool) EngineOption {
	return func(e *Engine) {
		e.pool = p
	}
}

// WithRand injects the random source. Sources shared between goroutines
// must be safe for concurrent use (see choice.Locked).
func WithRand(r domain.Rand) EngineOption {
	return func(e *Engine) {
		if r != nil {
			e.rng = r
		}
	}
}

// WithAttribution sets how finished poems are titled and credited.
func WithAttribution(p verse.AttributionPolicy) EngineOption {
	return func(e *Engine) {
		if p != nil {
			e.attribution = p
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithCompletionDepth bounds the forced tail appended to finished poems.
func WithCompletionDepth(depth int) EngineOption {
	return func(e *Engine) {
		e.completionDepth = depth
	}
}

// WithEarlyCompletion sets the thresholds for ending a traversal once the
// chain stops branching: at most maxKeys valid words ahead and at least
// minWords in the sentence.
func WithEarlyCompletion(maxKeys, minWords int) EngineOption {
	return func(e *Engine) {
		e.earlyMaxKeys = maxKeys
		e.earlyMinWords = minWords
	}
}

// NewEngine creates an engine reading chains from loader.
// A nil loader serves only the built-in fallback chain.
func NewEngine(loader ports.ChainLoader, opts ...EngineOption) *Engine {
	e := &Engine{
		loader:          loader,
		cache:           newChainCache(),
		pool:            domain.DefaultPool(),
		rng:             choice.Global,
		attribution:     verse.Anonymous,
		logger:          logging.NewNop(),
		completionDepth: chain.DefaultCompletionDepth,
		earlyMaxKeys:    DefaultEarlyMaxKeys,
		earlyMinWords:   DefaultEarlyMinWords,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Pool returns the configured chain pool.
func (e *Engine) Pool() domain.Pool {
	return e.pool
}

// Loader returns the underlying ChainLoader.
func (e *Engine) Loader() ports.ChainLoader {
	return e.loader
}

// Render describes what the host must present for state.
func (e *Engine) Render(state *domain.State) *domain.Turn {
	return domain.TurnFor(state)
}

var _ ports.Engine = (*Engine)(nil)
