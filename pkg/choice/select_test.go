package choice_test

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/aretw0/stanza/pkg/chain"
	"github.com/aretw0/stanza/pkg/choice"
	"github.com/aretw0/stanza/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// fan builds a node whose words lead to the given numbers of dead-end children.
func fan(children map[string]int, order ...string) *domain.Node {
	n := domain.NewNode()
	for _, w := range order {
		child := domain.NewNode()
		for i := 0; i < children[w]; i++ {
			child.Set(fmt.Sprintf("%s%d", w, i), domain.NewNode())
		}
		n.Set(w, child)
	}
	return n
}

func TestSelect(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	t.Run("Dead End", func(t *testing.T) {
		assert.Empty(t, choice.Select(domain.NewNode(), choice.MaxChoices, rng))
		assert.Empty(t, choice.Select(nil, choice.MaxChoices, rng))
	})

	t.Run("Few Words Keep Their Order", func(t *testing.T) {
		n := fan(map[string]int{"c": 0, "a": 5, "b": 2}, "c", "a", "b")
		for i := 0; i < 20; i++ {
			assert.Equal(t, []string{"c", "a", "b"}, choice.Select(n, choice.MaxChoices, rng))
		}
	})

	t.Run("Single Word", func(t *testing.T) {
		n := fan(map[string]int{"only": 0}, "only")
		assert.Equal(t, []string{"only"}, choice.Select(n, choice.MaxChoices, rng))
	})

	t.Run("Duplicate Explicit Keys Are Offered Once", func(t *testing.T) {
		n := domain.NewNode().WithKeys("echo", "echo", "echo", "echo", "fade")
		assert.Equal(t, []string{"echo", "fade"}, choice.Select(n, choice.MaxChoices, rng))
	})

	t.Run("Shortlist Excludes The Weakest", func(t *testing.T) {
		counts := map[string]int{"a": 2, "b": 4, "c": 6, "d": 8, "e": 10, "f": 12, "dull": 0, "flat": 0}
		n := fan(counts, "dull", "a", "b", "flat", "c", "d", "e", "f")
		for i := 0; i < 200; i++ {
			got := choice.Select(n, choice.MaxChoices, rng)
			require.Len(t, got, choice.MaxChoices)
			assert.NotContains(t, got, "dull")
			assert.NotContains(t, got, "flat")
		}
	})

	t.Run("Strong Branches Dominate", func(t *testing.T) {
		order := []string{"rich"}
		counts := map[string]int{"rich": 9}
		for i := 0; i < 9; i++ {
			w := fmt.Sprintf("thin%c", 'a'+i)
			order = append(order, w)
			counts[w] = 0
		}
		n := fan(counts, order...)

		hits := 0
		const trials = 1000
		for i := 0; i < trials; i++ {
			for _, w := range choice.Select(n, choice.MaxChoices, rng) {
				if w == "rich" {
					hits++
				}
			}
		}
		assert.Greater(t, hits, trials*6/10)
	})
}

func TestSelect_Bounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		width := rapid.IntRange(0, 15).Draw(t, "width")
		limit := rapid.IntRange(1, 5).Draw(t, "limit")
		seed := rapid.Uint64().Draw(t, "seed")

		n := domain.NewNode()
		for i := 0; i < width; i++ {
			w := rapid.StringMatching(`[a-z]{1,3}|__x|9`).Draw(t, "word")
			child := domain.NewNode()
			for j := rapid.IntRange(0, 4).Draw(t, "fanout"); j > 0; j-- {
				child.Set(fmt.Sprintf("k%d", j), domain.NewNode())
			}
			n.Set(w, child)
		}

		got := choice.Select(n, limit, rand.New(rand.NewPCG(seed, 3)))
		valid := chain.ValidKeys(n)

		if len(got) > limit {
			t.Fatalf("%d words returned, limit %d", len(got), limit)
		}
		if len(valid) > 0 && len(got) == 0 {
			t.Fatalf("no words returned from %v", valid)
		}
		if len(valid) <= limit && fmt.Sprint(got) != fmt.Sprint(valid) {
			t.Fatalf("small node reordered: got %v, want %v", got, valid)
		}
		seen := map[string]bool{}
		for _, w := range got {
			if seen[w] {
				t.Fatalf("duplicate %q in %v", w, got)
			}
			seen[w] = true
			if _, ok := n.Child(w); !ok {
				t.Fatalf("%q is not a child", w)
			}
		}
	})
}
