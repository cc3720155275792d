package runtime

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/stanza/pkg/domain"
	"golang.org/x/sync/singleflight"
)

// fetchTimeout bounds a shared fetch once it no longer follows its callers.
const fetchTimeout = 30 * time.Second

type cachedChain struct {
	root  *domain.Node
	nodes int
}

// chainCache keeps parsed chains by ID. Concurrent misses for one ID share a
// single load.
type chainCache struct {
	mu     sync.RWMutex
	chains map[string]cachedChain
	group  singleflight.Group
}

func newChainCache() *chainCache {
	return &chainCache{chains: make(map[string]cachedChain)}
}

func (c *chainCache) get(id string) (cachedChain, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cc, ok := c.chains[id]
	return cc, ok
}

// load returns the cached chain or runs fetch once for all concurrent callers.
// The shared fetch is detached from any single caller's cancellation; each
// caller stops waiting when its own ctx is done.
func (c *chainCache) load(ctx context.Context, id string, fetch func(context.Context) (*domain.Node, error)) (cachedChain, error) {
	if cc, ok := c.get(id); ok {
		return cc, nil
	}
	if err := ctx.Err(); err != nil {
		return cachedChain{}, err
	}
	ch := c.group.DoChan(id, func() (any, error) {
		// A flight that ended between the check above and DoChan already filled the cache.
		if cc, ok := c.get(id); ok {
			return cc, nil
		}
		flight, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()
		root, err := fetch(flight)
		if err != nil {
			return nil, err
		}
		cc := cachedChain{root: root, nodes: root.Size()}
		c.mu.Lock()
		c.chains[id] = cc
		c.mu.Unlock()
		return cc, nil
	})
	select {
	case <-ctx.Done():
		return cachedChain{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return cachedChain{}, res.Err
		}
		return res.Val.(cachedChain), nil
	}
}

// purge drops the given chains, or every chain when no ID is given.
func (c *chainCache) purge(ids ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(ids) == 0 {
		c.chains = make(map[string]cachedChain)
		return
	}
	for _, id := range ids {
		delete(c.chains, id)
	}
}

func (c *chainCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.chains)
}
