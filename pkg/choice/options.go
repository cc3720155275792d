package choice

import (
	"slices"
	"strings"

	"github.com/aretw0/stanza/pkg/chain"
	"github.com/aretw0/stanza/pkg/domain"
)

// Options computes the words shown on a turn.
// A node without valid words yields the single end marker. Otherwise the
// selection is topped up with unselected words and then padded with
// terminal markers until MaxChoices slots are filled.
func Options(n *domain.Node, rng domain.Rand) []string {
	choices := Select(n, MaxChoices, rng)
	if len(choices) == 0 {
		return []string{domain.MarkerEnd}
	}

	if len(choices) < MaxChoices {
		for _, k := range unique(chain.ValidKeys(n)) {
			if len(choices) >= MaxChoices {
				break
			}
			if !slices.Contains(choices, k) {
				choices = append(choices, k)
			}
		}
		for _, m := range domain.Markers {
			if len(choices) >= MaxChoices {
				break
			}
			if !slices.Contains(choices, m) {
				choices = append(choices, m)
			}
		}
	}

	return choices[:min(len(choices), MaxChoices)]
}

// IsSentinel reports whether word is a terminal marker rather than a chain word.
func IsSentinel(word string) bool {
	return strings.HasPrefix(word, "[") || word == domain.MarkerEllipsis || word == domain.MarkerDash
}

// Terminal reports whether a set of options offers no real word.
func Terminal(options []string) bool {
	for _, o := range options {
		if !IsSentinel(o) {
			return false
		}
	}
	return true
}
