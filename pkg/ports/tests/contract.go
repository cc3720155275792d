package tests

import (
	"context"
	"testing"

	"github.com/aretw0/stanza/pkg/domain"
	"github.com/aretw0/stanza/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ChainLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.ChainLoader.
func ChainLoaderContractTest(t *testing.T, loader ports.ChainLoader, setupData map[string][]byte) {
	t.Helper()
	ctx := context.Background()

	t.Run("LoadChain_Success", func(t *testing.T) {
		for id, expected := range setupData {
			content, err := loader.LoadChain(ctx, id)
			require.NoError(t, err, "loading chain %s", id)
			assert.JSONEq(t, string(expected), string(content), "content mismatch for %s", id)
		}
	})

	t.Run("LoadChain_NotFound", func(t *testing.T) {
		_, err := loader.LoadChain(ctx, "non-existent-chain")
		assert.ErrorIs(t, err, domain.ErrChainNotFound)
	})

	t.Run("ListChains", func(t *testing.T) {
		ids, err := loader.ListChains(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, keys(setupData), ids)
	})
}

func keys(m map[string][]byte) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
