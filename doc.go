/*
Package stanza is an interactive found-poetry engine.

A visitor builds a sentence one word at a time by walking a word chain: a tree
of words extracted from a corpus of poems. At every step the engine offers up
to three words, weighted toward the richest branches. When the walk runs out of
choices, or the visitor picks a terminal marker, the engine completes the tail,
lays the words out as verse and credits the poem.

# Concept

Chains are stored as JSON documents (chain_<id>.json) in which every key is a
word and every value the node beneath it. Two reserved keys carry metadata:
"__keys__" lists the valid child words explicitly and "__id__" ties a node to
its source poem. A document that cannot be fetched or parsed is replaced by a
small built-in chain, so the visitor is never left without words.

The engine is a hexagon: loaders (memory, file, remote HTTP) and session stores
(memory, file, redis) are ports, and the same engine serves the terminal, an
HTTP API and an MCP server.

# Usage

	eng := stanza.New("./output")

	ctx := context.Background()
	state, err := eng.Start(ctx, "session-1", "")
	if err != nil {
		log.Fatal(err)
	}

	for !eng.Render(state).Terminal {
		state, err = eng.Choose(ctx, state, state.Options[0])
		if err != nil {
			log.Fatal(err)
		}
	}
	fmt.Println(state.Poem.Text())
*/
package stanza
