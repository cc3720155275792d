package domain

import (
	"bytes"
	"encoding/json"
)

// Node represents a position in a word chain.
// A node with no children and no explicit keys is a leaf (dead end).
type Node struct {
	// Words holds the child keys in document order.
	Words []string

	// Children indexes the child nodes by word.
	Children map[string]*Node

	// Keys is the explicit child word list (the "__keys__" field).
	// It is only meaningful when HasKeys is true; an empty list is a valid dead end.
	Keys    []string
	HasKeys bool

	// PoemID associates this node with a source poem (the "__id__" field).
	// NumericID records that the document gave it as a JSON number.
	PoemID    string
	NumericID bool
}

// NewNode creates an empty node ready to receive children.
func NewNode() *Node {
	return &Node{Children: make(map[string]*Node)}
}

// Child returns the node stored under word.
func (n *Node) Child(word string) (*Node, bool) {
	if n == nil || n.Children == nil {
		return nil, false
	}
	c, ok := n.Children[word]
	return c, ok
}

// Set stores child under word. Re-setting a word keeps its original position.
func (n *Node) Set(word string, child *Node) {
	if n.Children == nil {
		n.Children = make(map[string]*Node)
	}
	if _, exists := n.Children[word]; !exists {
		n.Words = append(n.Words, word)
	}
	n.Children[word] = child
}

// WithKeys sets the explicit key list and returns the node for chaining.
func (n *Node) WithKeys(keys ...string) *Node {
	n.Keys = append([]string{}, keys...)
	n.HasKeys = true
	return n
}

// Walk follows path from n and returns the node reached.
// It returns false as soon as a word has no child node.
func (n *Node) Walk(path []string) (*Node, bool) {
	cur := n
	for _, w := range path {
		next, ok := cur.Child(w)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, cur != nil
}

// Size counts the nodes of the subtree rooted at n.
func (n *Node) Size() int {
	if n == nil {
		return 0
	}
	total := 1
	for _, w := range n.Words {
		total += n.Children[w].Size()
	}
	return total
}

// MarshalJSON writes the node back in the document shape, keeping child order.
func (n *Node) MarshalJSON() ([]byte, error) {
	if n == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	field := func(key string, value []byte) error {
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(value)
		return nil
	}

	if n.HasKeys {
		keys := n.Keys
		if keys == nil {
			keys = []string{}
		}
		v, err := json.Marshal(keys)
		if err != nil {
			return nil, err
		}
		if err := field(KeyExplicit, v); err != nil {
			return nil, err
		}
	}
	if n.PoemID != "" {
		v := []byte(n.PoemID)
		if !n.NumericID || !json.Valid(v) {
			var err error
			if v, err = json.Marshal(n.PoemID); err != nil {
				return nil, err
			}
		}
		if err := field(KeyPoemID, v); err != nil {
			return nil, err
		}
	}
	for _, w := range n.Words {
		v, err := n.Children[w].MarshalJSON()
		if err != nil {
			return nil, err
		}
		if err := field(w, v); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
