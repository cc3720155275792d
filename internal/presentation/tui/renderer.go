package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/stanza/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// Rendering falls back to the raw markdown when no renderer can be built.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(72),
	)
	if err != nil {
		return Plain
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// Plain renders markdown as is.
func Plain(markdown string) (string, error) {
	return markdown, nil
}

// PoemMarkdown lays a finished poem out as markdown: title, lines, attribution.
func PoemMarkdown(p *domain.Poem) string {
	if p == nil {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", p.Title)
	for _, line := range p.Lines {
		// Trailing double space keeps each line a hard break.
		sb.WriteString(line)
		sb.WriteString("  \n")
	}
	if p.Author != "" {
		sb.WriteString("\n*")
		sb.WriteString(p.Author)
		if p.Era != "" {
			fmt.Fprintf(&sb, ", %s", p.Era)
		}
		sb.WriteString("*\n")
	}
	return sb.String()
}

// OptionsMarkdown renders the offered words as a numbered list.
func OptionsMarkdown(sentence, options []string) string {
	var sb strings.Builder
	if len(sentence) > 0 {
		fmt.Fprintf(&sb, "> %s\n\n", strings.Join(sentence, " "))
	}
	for i, o := range options {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, o)
	}
	return sb.String()
}
