package domain

// Status defines the phase of a traversal.
type Status string

const (
	StatusLoading    Status = "loading"    // Chain fetch pending; choices must not be accepted
	StatusChoosing   Status = "choosing"   // Options are on offer
	StatusCompleting Status = "completing" // Interaction ended, tail is being materialised
	StatusDone       Status = "done"       // Poem produced; the host should start a new chain
)

// State represents the snapshot of a single traversal.
// One session holds exactly one State; loading a chain replaces it wholesale.
type State struct {
	SessionID string `json:"session_id"`

	// ChainID names the chain document this traversal walks.
	ChainID string `json:"chain_id"`

	// Fallback is true when the document could not be loaded and the built-in chain is used.
	Fallback bool `json:"fallback,omitempty"`

	Status Status `json:"status"`

	// Sentence holds the chosen words so far. It is also the path from the
	// chain root to the current node.
	Sentence []string `json:"sentence"`

	// PoemID is the first "__id__" met along the path. Set once per traversal.
	PoemID string `json:"poem_id,omitempty"`

	// Options are the words offered on the latest turn.
	Options []string `json:"options,omitempty"`

	// Poem is set once the traversal is done.
	Poem *Poem `json:"poem,omitempty"`

	// Chain and Current are runtime references, rebuilt from ChainID and Sentence.
	Chain   *Node `json:"-"`
	Current *Node `json:"-"`
}

// NewState creates a clean traversal for a chain in the loading phase.
func NewState(sessionID, chainID string) *State {
	return &State{
		SessionID: sessionID,
		ChainID:   chainID,
		Status:    StatusLoading,
		Sentence:  []string{},
	}
}

// Snapshot returns a copy of the state that can be mutated without touching the original.
// Node references are shared: chains are immutable once loaded.
func (s *State) Snapshot() *State {
	if s == nil {
		return nil
	}
	c := *s
	c.Sentence = append([]string{}, s.Sentence...)
	if s.Options != nil {
		c.Options = append([]string{}, s.Options...)
	}
	if s.Poem != nil {
		p := *s.Poem
		c.Poem = &p
	}
	return &c
}

// Offered reports whether word was among the latest options.
func (s *State) Offered(word string) bool {
	for _, o := range s.Options {
		if o == word {
			return true
		}
	}
	return false
}

// Hydrated reports whether runtime node references are present.
func (s *State) Hydrated() bool {
	return s.Chain != nil && s.Current != nil
}
