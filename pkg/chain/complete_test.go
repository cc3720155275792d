package chain_test

import (
	"fmt"
	"testing"

	"github.com/aretw0/stanza/pkg/chain"
	"github.com/aretw0/stanza/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func linear(words ...string) *domain.Node {
	root := domain.NewNode()
	cur := root
	for _, w := range words {
		next := domain.NewNode()
		cur.Set(w, next)
		cur = next
	}
	return root
}

func TestComplete(t *testing.T) {
	t.Run("Explicit Single Key", func(t *testing.T) {
		root, err := chain.Parse([]byte(`{"a":{"__keys__":["x"]}}`))
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, chain.ValidKeys(root))

		a, _ := root.Child("a")
		assert.Equal(t, []string{"x"}, chain.ValidKeys(a))
		assert.Equal(t, []string{"x"}, chain.Complete(a, chain.DefaultCompletionDepth))
	})

	t.Run("Stops At A Fork", func(t *testing.T) {
		root := linear("over", "the")
		the, ok := root.Walk([]string{"over", "the"})
		require.True(t, ok)
		the.Set("hill", domain.NewNode())
		the.Set("sea", domain.NewNode())

		assert.Equal(t, []string{"over", "the"}, chain.Complete(root, 10))
	})

	t.Run("Stops At A Dead End", func(t *testing.T) {
		root := chain.Fallback()
		brown, ok := root.Walk([]string{"the", "quick", "brown"})
		require.True(t, ok)
		assert.Empty(t, chain.Complete(brown, 10))

		slow, _ := root.Walk([]string{"the", "slow"})
		assert.Equal(t, []string{"gentle"}, chain.Complete(slow, 10))
	})

	t.Run("Bounded By Depth", func(t *testing.T) {
		words := make([]string, 25)
		for i := range words {
			words[i] = fmt.Sprintf("w%d", i)
		}
		assert.Len(t, chain.Complete(linear(words...), 10), 10)
		assert.Empty(t, chain.Complete(linear(words...), 0))
	})

	t.Run("Nil Node", func(t *testing.T) {
		assert.Empty(t, chain.Complete(nil, 10))
	})
}

func TestComplete_FollowsRealEdges(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		root := drawTree(t, 5)
		maxDepth := rapid.IntRange(0, 12).Draw(t, "maxDepth")

		tail := chain.Complete(root, maxDepth)
		if len(tail) > maxDepth {
			t.Fatalf("tail of %d words exceeds depth %d", len(tail), maxDepth)
		}

		cur := root
		for i, w := range tail {
			keys := chain.ValidKeys(cur)
			if len(keys) != 1 || keys[0] != w {
				t.Fatalf("step %d: %q is not the single key of %v", i, w, keys)
			}
			next, ok := cur.Child(w)
			if !ok {
				if i != len(tail)-1 {
					t.Fatalf("walk continued past missing node at %q", w)
				}
				return
			}
			cur = next
		}
	})
}

// drawTree generates a random chain where single-child corridors are common.
func drawTree(t *rapid.T, depth int) *domain.Node {
	n := domain.NewNode()
	if depth == 0 {
		return n
	}
	width := rapid.IntRange(0, 3).Draw(t, fmt.Sprintf("width-%d", depth))
	for i := 0; i < width; i++ {
		word := rapid.SampledFrom([]string{"the", "sea", "and", "night", "burns", "__id__", "9"}).Draw(t, "word")
		n.Set(word, drawTree(t, depth-1))
	}
	if rapid.IntRange(0, 4).Draw(t, "explicit") == 0 {
		n.WithKeys(n.Words...)
	}
	return n
}
