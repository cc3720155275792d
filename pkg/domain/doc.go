/*
Package domain contains the core domain models of the Stanza engine.

It defines the word chain tree, the traversal state of a visitor, and the
records handed to hosts on every turn. The package is kept pure and free of
I/O or persistence concerns, following Hexagonal Architecture principles.

# Key Entities

  - Node: A position in a word chain. Children are keyed by word and keep document order.
  - State: The snapshot of one traversal (chain, sentence, poem id, offered options).
  - Turn: What the host should show next: up to three options, or a finished Poem.
  - Poem: The completed text, split into lines, with its attribution.
*/
package domain
