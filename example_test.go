package stanza_test

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aretw0/stanza"
	"github.com/aretw0/stanza/pkg/adapters/memory"
	"github.com/aretw0/stanza/pkg/chain"
	"github.com/aretw0/stanza/pkg/domain"
)

// ExampleNew_memory walks an in-memory chain from its first word to a poem.
func ExampleNew_memory() {
	loader, err := memory.NewFromNodes(map[string]*domain.Node{"demo": chain.Fallback()})
	if err != nil {
		log.Fatal(err)
	}

	engine := stanza.New("", stanza.WithLoader(loader), stanza.WithSeed(1))

	ctx := context.Background()
	state, err := engine.Start(ctx, "example", "demo")
	if err != nil {
		log.Fatal(err)
	}

	for _, word := range []string{"quick", "brown", "fox"} {
		fmt.Printf("%s: %v\n", strings.Join(state.Sentence, " "), state.Options)
		if state, err = engine.Choose(ctx, state, word); err != nil {
			log.Fatal(err)
		}
	}

	turn := engine.Render(state)
	fmt.Println(turn.Poem.Title)
	fmt.Println(turn.Poem.Text())

	// Output:
	// the: [quick slow ...]
	// the quick: [brown silver ...]
	// the quick brown: [fox dog cat]
	// "Quick brown"
	// the quick brown fox
}
