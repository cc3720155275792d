/*
Package chain reads and analyses word chain trees.

A chain document is a JSON object keyed by word, where every value is the
subtree of continuations. Two reserved keys may appear next to the words:
"__keys__" lists the valid child words explicitly and "__id__" ties a node
to its source poem.

# Operations

  - Parse: decodes a document into a *domain.Node, preserving key order.
  - ValidKeys: the words a visitor may pick at a node.
  - Score: how much sustained branching a word leads to (bounded lookahead).
  - Complete: the forced single-choice tail below a node.
*/
package chain
