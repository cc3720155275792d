package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/stanza/pkg/domain"
)

// Loader implements ports.ChainLoader using an in-memory map.
// Safe for concurrent use.
type Loader struct {
	mu     sync.RWMutex
	chains map[string][]byte
}

// NewLoader creates a new memory Loader with the provided raw documents (JSON strings).
func NewLoader(data map[string]string) *Loader {
	chains := make(map[string][]byte)
	for k, v := range data {
		chains[k] = []byte(v)
	}
	return &Loader{
		chains: chains,
	}
}

// NewFromNodes creates a new memory Loader from parsed chains.
// This handles serialization automatically, improving DX for tests.
func NewFromNodes(chains map[string]*domain.Node) (*Loader, error) {
	data := make(map[string][]byte, len(chains))
	for id, n := range chains {
		if id == "" {
			return nil, fmt.Errorf("chain missing ID")
		}
		bytes, err := n.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("failed to marshal chain %s: %w", id, err)
		}
		data[id] = bytes
	}
	return &Loader{chains: data}, nil
}

// Put stores or replaces a chain document.
func (l *Loader) Put(id string, doc []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.chains[id] = append([]byte(nil), doc...)
}

// LoadChain retrieves the raw document of a chain by ID.
func (l *Loader) LoadChain(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	content, ok := l.chains[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrChainNotFound, id)
	}
	return content, nil
}

// ListChains returns all available chain IDs.
func (l *Loader) ListChains(ctx context.Context) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	keys := make([]string, 0, len(l.chains))
	for k := range l.chains {
		keys = append(keys, k)
	}
	sort.Strings(keys) // Deterministic order
	return keys, nil
}
