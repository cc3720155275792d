package chain

import "github.com/aretw0/stanza/pkg/domain"

// Fallback builds the small chain used when a document cannot be loaded.
// A fresh tree is returned on every call and callers cannot corrupt a shared copy.
func Fallback() *domain.Node {
	brown := domain.NewNode().WithKeys("fox", "dog", "cat")
	silver := domain.NewNode().WithKeys("moon", "star", "light")
	gentle := domain.NewNode().WithKeys("rain", "wind", "snow")

	quick := domain.NewNode()
	quick.Set("brown", brown)
	quick.Set("silver", silver)
	quick.WithKeys("brown", "silver")

	slow := domain.NewNode()
	slow.Set("gentle", gentle)
	slow.WithKeys("gentle")

	the := domain.NewNode()
	the.Set("quick", quick)
	the.Set("slow", slow)
	the.WithKeys("quick", "slow")

	root := domain.NewNode()
	root.Set("the", the)
	return root
}
