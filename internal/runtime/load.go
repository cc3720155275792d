package runtime

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/stanza/pkg/chain"
	"github.com/aretw0/stanza/pkg/choice"
	"github.com/aretw0/stanza/pkg/domain"
	"github.com/google/uuid"
)

// Start loads a chain into a fresh traversal for sessionID.
// An empty sessionID gets a generated one; an empty chainID picks a preferred chain.
func (e *Engine) Start(ctx context.Context, sessionID, chainID string) (*domain.State, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	if chainID == "" {
		chainID = e.pool.Pick(e.rng, true)
	}
	return e.Load(ctx, sessionID, chainID)
}

// Restart begins a new traversal for the session of state.
func (e *Engine) Restart(ctx context.Context, state *domain.State, chainID string) (*domain.State, error) {
	if state == nil {
		return nil, fmt.Errorf("restart: %w", domain.ErrSessionNotFound)
	}
	return e.Start(ctx, state.SessionID, chainID)
}

// Load replaces the traversal with one over chainID.
// A chain that cannot be fetched or parsed is replaced by the built-in
// fallback; only context cancellation is reported as an error.
func (e *Engine) Load(ctx context.Context, sessionID, chainID string) (*domain.State, error) {
	begin := time.Now()
	state := domain.NewState(sessionID, chainID)

	root, nodes, err := e.chain(ctx, chainID)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		e.logger.Warn("chain unavailable, using fallback", "chain", chainID, "err", err)
		root = chain.Fallback()
		nodes = root.Size()
		state.Fallback = true
	}
	state.Chain = root
	state.Current = root

	e.emitChainLoad(ctx, state, nodes, time.Since(begin), err)

	// A chain with a single opening word starts on that word.
	state.PoemID = root.PoemID
	if keys := chain.ValidKeys(root); len(keys) == 1 {
		if first, ok := root.Child(keys[0]); ok {
			state.Sentence = []string{keys[0]}
			state.Current = first
			state.PoemID = firstPoemID(root.PoemID, first.PoemID)
		}
	}

	state.Status = domain.StatusChoosing
	state.Options = choice.Options(state.Current, e.rng)
	if choice.Terminal(state.Options) {
		return e.finish(ctx, state, outcome{reason: reasonDeadEnd}), nil
	}
	return state, nil
}

// Resume rebuilds the node references of a state read back from a store.
// The chain is reloaded by ID and the sentence is walked again from the root.
func (e *Engine) Resume(ctx context.Context, state *domain.State) (*domain.State, error) {
	if state == nil {
		return nil, fmt.Errorf("resume: %w", domain.ErrSessionNotFound)
	}
	if state.Hydrated() {
		return state, nil
	}

	var root *domain.Node
	if state.Fallback {
		root = chain.Fallback()
	} else {
		var err error
		if root, _, err = e.chain(ctx, state.ChainID); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("resume chain %s: %w", state.ChainID, err)
		}
	}

	next := state.Snapshot()
	next.Chain = root
	current, ok := root.Walk(next.Sentence)
	if !ok {
		if next.Status != domain.StatusDone {
			return nil, fmt.Errorf("%w: sentence %q no longer exists in chain %s",
				domain.ErrInvalidChain, next.Sentence, next.ChainID)
		}
		current = root
	}
	next.Current = current
	return next, nil
}

// Chains lists the chain IDs the loader can serve, or the pool when there is no loader.
func (e *Engine) Chains(ctx context.Context) ([]string, error) {
	if e.loader == nil {
		return append([]string{}, e.pool.All...), nil
	}
	return e.loader.ListChains(ctx)
}

// Document returns the raw JSON of a chain. The fallback chain is always available.
func (e *Engine) Document(ctx context.Context, chainID string) ([]byte, error) {
	var (
		raw []byte
		err error
	)
	if e.loader != nil {
		raw, err = e.loader.LoadChain(ctx, chainID)
	} else {
		err = fmt.Errorf("%w: %s", domain.ErrChainNotFound, chainID)
	}
	if err != nil && chainID == domain.FallbackChainID && errors.Is(err, domain.ErrChainNotFound) {
		return chain.Fallback().MarshalJSON()
	}
	return raw, err
}

// Purge drops cached chains so the next load reads them again.
// With no IDs the whole cache is cleared.
func (e *Engine) Purge(ids ...string) {
	e.cache.purge(ids...)
}

// chain returns the parsed chain and its node count.
func (e *Engine) chain(ctx context.Context, id string) (*domain.Node, int, error) {
	if e.loader == nil {
		return nil, 0, fmt.Errorf("%w: no loader configured", domain.ErrChainNotFound)
	}
	cc, err := e.cache.load(ctx, id, func(ctx context.Context) (*domain.Node, error) {
		raw, err := e.loader.LoadChain(ctx, id)
		if err != nil {
			return nil, err
		}
		return chain.Parse(raw)
	})
	if err != nil {
		return nil, 0, err
	}
	return cc.root, cc.nodes, nil
}

func firstPoemID(ids ...string) string {
	for _, id := range ids {
		if id != "" {
			return id
		}
	}
	return ""
}
