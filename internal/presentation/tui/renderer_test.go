package tui

import (
	"bytes"
	"testing"

	"github.com/aretw0/stanza/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestPoemMarkdown(t *testing.T) {
	p := &domain.Poem{
		Title:  `"Quick brown"`,
		Lines:  []string{"the quick brown fox,", "jumps"},
		Author: "Emily Dickinson",
		Era:    "1830-1886",
	}
	got := PoemMarkdown(p)
	assert.Equal(t, "## \"Quick brown\"\n\nthe quick brown fox,  \njumps  \n\n*Emily Dickinson, 1830-1886*\n", got)
	assert.Empty(t, PoemMarkdown(nil))
}

func TestPoemMarkdown_Anonymous(t *testing.T) {
	got := PoemMarkdown(&domain.Poem{Title: "Untitled", Lines: []string{"one"}})
	assert.Equal(t, "## Untitled\n\none  \n", got)
}

func TestOptionsMarkdown(t *testing.T) {
	got := OptionsMarkdown([]string{"the"}, []string{"quick", "slow", "..."})
	assert.Equal(t, "> the\n\n1. quick\n2. slow\n3. ...\n", got)
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "1.0.0\n")
	assert.Contains(t, buf.String(), "v1.0.0")
}

func TestNewRenderer(t *testing.T) {
	render := NewRenderer()
	out, err := render("# Title")
	assert.NoError(t, err)
	assert.Contains(t, out, "Title")
}
