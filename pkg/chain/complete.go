package chain

import "github.com/aretw0/stanza/pkg/domain"

// DefaultCompletionDepth bounds the forced tail appended to a poem.
const DefaultCompletionDepth = 10

// Complete follows the single-choice continuation below n.
// While exactly one valid key exists it appends that word and descends,
// for at most maxDepth words. A word without a node beneath it ends the walk
// after being appended.
func Complete(n *domain.Node, maxDepth int) []string {
	tail := []string{}
	cur := n
	for maxDepth > 0 && cur != nil {
		keys := ValidKeys(cur)
		if len(keys) != 1 {
			break
		}
		word := keys[0]
		tail = append(tail, word)
		next, ok := cur.Child(word)
		if !ok {
			break
		}
		cur = next
		maxDepth--
	}
	return tail
}
