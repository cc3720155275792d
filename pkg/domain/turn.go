package domain

import "strings"

// Turn is what the host must present after every engine call.
// Either Options holds up to three words to render, or Terminal is true and Poem is set.
type Turn struct {
	SessionID string   `json:"session_id"`
	ChainID   string   `json:"chain_id"`
	Sentence  []string `json:"sentence"`
	Options   []string `json:"options,omitempty"`
	Terminal  bool     `json:"terminal"`
	Poem      *Poem    `json:"poem,omitempty"`
}

// Poem is the finished text of one traversal.
type Poem struct {
	ChainID string `json:"chain_id"`
	PoemID  string `json:"poem_id,omitempty"`

	// UserPath is the sentence the visitor built, joined by spaces.
	UserPath string `json:"user_path"`

	// Ending is a chosen word that had no node beneath it.
	Ending string `json:"ending,omitempty"`

	// Marker is the terminal marker the visitor picked, if any.
	Marker string `json:"marker,omitempty"`

	// Completion is the forced single-choice tail appended by the engine.
	Completion []string `json:"completion"`

	Lines  []string `json:"lines"`
	Title  string   `json:"title"`
	Author string   `json:"author,omitempty"`
	Era    string   `json:"era,omitempty"`
}

// Text returns the poem as a single line.
func (p *Poem) Text() string {
	return strings.Join(p.Lines, " ")
}

// TurnFor builds the turn describing state.
func TurnFor(state *State) *Turn {
	t := &Turn{
		SessionID: state.SessionID,
		ChainID:   state.ChainID,
		Sentence:  append([]string{}, state.Sentence...),
	}
	if state.Status == StatusDone {
		t.Terminal = true
		t.Poem = state.Poem
		return t
	}
	t.Options = append([]string{}, state.Options...)
	return t
}
