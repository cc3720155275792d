package ports

import (
	"context"

	"github.com/aretw0/stanza/pkg/domain"
)

// Engine defines the traversal operations exposed to driving adapters.
// Implementations hold no per-session state: every call takes and returns a State.
type Engine interface {
	// Start loads a chain into a fresh traversal. An empty chainID picks a preferred chain.
	Start(ctx context.Context, sessionID, chainID string) (*domain.State, error)

	// Choose submits one of the offered words and returns the advanced state.
	Choose(ctx context.Context, state *domain.State, word string) (*domain.State, error)

	// Restart begins a new traversal for the same session.
	Restart(ctx context.Context, state *domain.State, chainID string) (*domain.State, error)

	// Resume rebuilds runtime node references of a state read back from a store.
	Resume(ctx context.Context, state *domain.State) (*domain.State, error)

	// Chains lists the chain IDs the engine can serve.
	Chains(ctx context.Context) ([]string, error)

	// Document returns the raw JSON of a chain, as served by the loader.
	Document(ctx context.Context, chainID string) ([]byte, error)
}
