package chain

import "github.com/aretw0/stanza/pkg/domain"

// DefaultScoreDepth is the lookahead used when ranking choices.
const DefaultScoreDepth = 3

const (
	lookaheadWidth  = 3
	lookaheadWeight = 0.5
)

// Score rates word under n by the branching it leads to.
// The base score is the number of valid keys below the word. When depth allows
// and the word forks, half of the mean score of its first three continuations is added.
// Score is 0 for a missing child, a dead end or an exhausted depth.
func Score(n *domain.Node, word string, depth int) float64 {
	if depth <= 0 {
		return 0
	}
	next, ok := n.Child(word)
	if !ok || next == nil {
		return 0
	}

	keys := ValidKeys(next)
	if len(keys) == 0 {
		return 0
	}

	score := float64(len(keys))
	if depth > 1 && len(keys) >= 2 {
		width := min(len(keys), lookaheadWidth)
		future := 0.0
		for _, k := range keys[:width] {
			future += Score(next, k, depth-1)
		}
		score += lookaheadWeight * (future / float64(width))
	}
	return score
}
