package choice

import (
	"math"

	"github.com/aretw0/stanza/pkg/domain"
)

// Decay is the weight ratio between consecutive ranks.
const Decay = 0.7

// Pick samples k distinct ranks out of 0..n-1 without replacement.
// Rank i starts with weight decay^i; every draw is proportional to the weights
// still in play, and the drawn rank leaves the pool before the next draw.
// Fewer than k ranks are returned when n < k.
func Pick(rng domain.Rand, n, k int, decay float64) []int {
	if n <= 0 || k <= 0 {
		return []int{}
	}

	ranks := make([]int, n)
	weights := make([]float64, n)
	for i := range ranks {
		ranks[i] = i
		weights[i] = math.Pow(decay, float64(i))
	}

	picked := make([]int, 0, min(n, k))
	for len(picked) < k && len(ranks) > 0 {
		total := 0.0
		for _, w := range weights {
			total += w
		}

		r := rng.Float64() * total
		idx := 0
		for j, w := range weights {
			r -= w
			if r <= 0 {
				idx = j
				break
			}
		}

		picked = append(picked, ranks[idx])
		ranks = append(ranks[:idx], ranks[idx+1:]...)
		weights = append(weights[:idx], weights[idx+1:]...)
	}
	return picked
}
