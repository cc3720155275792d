package choice

import (
	"math"
	"sort"

	"github.com/aretw0/stanza/pkg/chain"
	"github.com/aretw0/stanza/pkg/domain"
)

// MaxChoices is the number of options shown per turn.
const MaxChoices = 3

const (
	scoreTolerance     = 0.5
	immediateTolerance = 1
	shortlistFactor    = 2
)

type candidate struct {
	word      string
	score     float64
	immediate int
	tiebreak  float64
}

// before orders candidates by score, then by immediate choices, then randomly.
// Scores within 0.5 and counts within 1 of each other count as ties.
func before(a, b candidate) bool {
	if math.Abs(a.score-b.score) > scoreTolerance {
		return a.score > b.score
	}
	if abs(a.immediate-b.immediate) > immediateTolerance {
		return a.immediate > b.immediate
	}
	return a.tiebreak < b.tiebreak
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Select returns up to limit distinct words to offer at n.
// When no more than limit words exist they are returned in order, unranked.
// Otherwise the ranked top 2*limit form a shortlist sampled by Pick.
func Select(n *domain.Node, limit int, rng domain.Rand) []string {
	available := unique(chain.ValidKeys(n))
	if len(available) == 0 || limit <= 0 {
		return []string{}
	}
	if len(available) <= limit {
		return available
	}

	candidates := make([]candidate, len(available))
	for i, w := range available {
		child, _ := n.Child(w)
		candidates[i] = candidate{
			word:      w,
			score:     chain.Score(n, w, chain.DefaultScoreDepth),
			immediate: len(chain.ValidKeys(child)),
			tiebreak:  rng.Float64(),
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return before(candidates[i], candidates[j])
	})

	shortlist := candidates[:min(shortlistFactor*limit, len(candidates))]
	picks := Pick(rng, len(shortlist), limit, Decay)

	words := make([]string, len(picks))
	for i, rank := range picks {
		words[i] = shortlist[rank].word
	}
	return words
}

func unique(words []string) []string {
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}
