package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/stanza/pkg/chain"
	"github.com/aretw0/stanza/pkg/domain"
)

// DefaultMaxDepth bounds how many levels of a chain are drawn.
const DefaultMaxDepth = 3

// Overlay highlights the path a visitor has walked.
type Overlay struct {
	// Path is the sentence built so far, starting at the chain root.
	Path []string
}

// GenerateMermaid produces a Mermaid flowchart of the top levels of a chain.
// Word nodes are drawn as [Rectangle], the root as ((Circle)) and explicit
// keys with no node beneath them as [/Parallelogram/] leaves reached by a
// dotted arrow. Nodes deeper than maxDepth are cut.
func GenerateMermaid(root *domain.Node, maxDepth int, overlay *Overlay) string {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	var sb strings.Builder
	sb.WriteString("graph TD\n")
	if root == nil {
		return sb.String()
	}

	g := &generator{sb: &sb, maxDepth: maxDepth, visited: map[string]bool{}}
	if overlay != nil {
		g.markPath(overlay.Path)
	}

	sb.WriteString("    n0((\"root\"))\n")
	g.walk(root, "n0", "n0", 1)

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		for _, id := range g.visitedIDs {
			fmt.Fprintf(&sb, "    class %s visited;\n", id)
		}
		fmt.Fprintf(&sb, "    class %s current;\n", g.currentID)
	}
	return sb.String()
}

type generator struct {
	sb       *strings.Builder
	maxDepth int
	next     int

	// visited holds path prefixes ("n0/the/quick") along the overlay.
	visited    map[string]bool
	current    string
	visitedIDs []string
	currentID  string
}

func (g *generator) markPath(path []string) {
	key := "n0"
	g.visited[key] = true
	for _, w := range path {
		key += "/" + w
		g.visited[key] = true
	}
	g.current = key
}

func (g *generator) id() string {
	g.next++
	return fmt.Sprintf("n%d", g.next)
}

func (g *generator) walk(n *domain.Node, id, key string, depth int) {
	if key == g.current {
		g.currentID = id
	} else if g.visited[key] {
		g.visitedIDs = append(g.visitedIDs, id)
	}
	if depth > g.maxDepth {
		return
	}

	for _, w := range chain.ValidKeys(n) {
		childID := g.id()
		childKey := key + "/" + w
		child, ok := n.Child(w)
		if !ok {
			fmt.Fprintf(g.sb, "    %s[/\"%s\"/]\n", childID, w)
			fmt.Fprintf(g.sb, "    %s -.-> %s\n", id, childID)
			continue
		}
		fmt.Fprintf(g.sb, "    %s[\"%s\"]\n", childID, w)
		fmt.Fprintf(g.sb, "    %s --> %s\n", id, childID)
		g.walk(child, childID, childKey, depth+1)
	}
}
