package chain

import (
	"regexp"
	"strings"

	"github.com/aretw0/stanza/pkg/domain"
)

var wordPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9\-'.,;:!?\s]*$`)

// IsValidWord reports whether key may be offered to a visitor.
// Reserved keys, blank keys and keys not led by a letter are rejected.
func IsValidWord(key string) bool {
	if strings.HasPrefix(key, domain.ReservedPrefix) {
		return false
	}
	if strings.TrimSpace(key) == "" {
		return false
	}
	return wordPattern.MatchString(key)
}

// ValidKeys returns the words that may be picked at n, in order.
// The explicit key list wins when present; otherwise the child words are used.
// Duplicates in the source are kept. A nil node has no keys.
func ValidKeys(n *domain.Node) []string {
	if n == nil {
		return []string{}
	}
	source := n.Words
	if n.HasKeys {
		source = n.Keys
	}
	keys := make([]string, 0, len(source))
	for _, k := range source {
		if IsValidWord(k) {
			keys = append(keys, k)
		}
	}
	return keys
}
