package verse

import (
	"strings"

	"github.com/aretw0/stanza/pkg/domain"
)

const (
	// SoftLineWords is the length from which a line may be broken at random.
	SoftLineWords = 6
	// HardLineWords is the length at which a line is always broken.
	HardLineWords = 10

	breakChance = 0.6
)

// Format splits words into verse lines. Words are counted after splitting on
// whitespace, so a multi-word key counts once per word it holds.
// A line ends after a word carrying a comma, period or semicolon. Once a line
// holds SoftLineWords words it ends with 40% probability after each further
// word, and it never grows beyond HardLineWords.
func Format(words []string, rng domain.Rand) []string {
	lines := []string{}
	var line []string
	for _, word := range words {
		for _, w := range strings.Fields(word) {
			line = append(line, w)
			if breaksAfter(w, len(line), rng) {
				lines = append(lines, strings.Join(line, " "))
				line = line[:0]
			}
		}
	}
	if len(line) > 0 {
		lines = append(lines, strings.Join(line, " "))
	}
	return lines
}

func breaksAfter(word string, length int, rng domain.Rand) bool {
	if strings.ContainsAny(word, ",.;") {
		return true
	}
	if length >= HardLineWords {
		return true
	}
	return length >= SoftLineWords && rng.Float64() > breakChance
}
