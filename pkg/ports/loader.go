package ports

import "context"

// ChainLoader defines how the engine retrieves chain documents.
// This allows the storage layer (FS, Memory, HTTP) to be decoupled.
type ChainLoader interface {
	// LoadChain retrieves the raw JSON document of a chain by ID.
	// It returns domain.ErrChainNotFound (wrapped) when the source has no such chain.
	LoadChain(ctx context.Context, id string) ([]byte, error)

	// ListChains returns the IDs of all chains the source can serve.
	// This is used for introspection tools (e.g. 'stanza chains').
	ListChains(ctx context.Context) ([]string, error)
}

// Watchable defines an interface for loaders that can notify about backend changes.
// The engine uses it to drop cached chains.
type Watchable interface {
	// Watch returns a channel that is signaled when the underlying chains change.
	// It abstracts away the specific event details, signaling only that a reload is required.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
