package choice_test

import (
	"math/rand/v2"
	"testing"

	"github.com/aretw0/stanza/pkg/choice"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestPick_DistinctRanksInRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 20).Draw(t, "n")
		k := rapid.IntRange(0, 8).Draw(t, "k")
		seed := rapid.Uint64().Draw(t, "seed")

		picks := choice.Pick(rand.New(rand.NewPCG(seed, 1)), n, k, choice.Decay)
		if want := min(n, k); len(picks) != want {
			t.Fatalf("got %d picks, want %d", len(picks), want)
		}
		seen := map[int]bool{}
		for _, p := range picks {
			if p < 0 || p >= n {
				t.Fatalf("rank %d out of range [0,%d)", p, n)
			}
			if seen[p] {
				t.Fatalf("rank %d picked twice", p)
			}
			seen[p] = true
		}
	})
}

func TestPick_ZeroDecayIsRankOrder(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	assert.Equal(t, []int{0, 1, 2}, choice.Pick(rng, 5, 3, 0))
}

func TestPick_FavoursEarlierRanks(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 1024))
	const trials = 20000
	counts := make([]int, 6)
	for i := 0; i < trials; i++ {
		counts[choice.Pick(rng, 6, 1, choice.Decay)[0]]++
	}

	for i := 1; i < len(counts); i++ {
		assert.Greater(t, counts[i-1], counts[i], "rank %d should be drawn more often than rank %d", i-1, i)
	}
	// Consecutive ranks are drawn in the ratio of their weights.
	ratio := float64(counts[1]) / float64(counts[0])
	assert.InDelta(t, choice.Decay, ratio, 0.05)
}
