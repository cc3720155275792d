package runtime

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/stanza/pkg/chain"
	"github.com/aretw0/stanza/pkg/choice"
	"github.com/aretw0/stanza/pkg/domain"
	"github.com/aretw0/stanza/pkg/verse"
)

// Completion reasons reported through PoemEvent.Reason.
const (
	reasonDeadEnd      = "dead_end"
	reasonMarker       = "marker"
	reasonLowBranching = "low_branching"
	reasonNoChild      = "no_child"
)

type outcome struct {
	reason string
	ending string
	marker string
}

// Choose submits word, which must be one of state.Options, and returns the
// resulting state. The input state is never modified.
func (e *Engine) Choose(ctx context.Context, state *domain.State, word string) (*domain.State, error) {
	if state == nil {
		return nil, fmt.Errorf("choose: %w", domain.ErrSessionNotFound)
	}
	if state.Status != domain.StatusChoosing {
		return nil, fmt.Errorf("choose %q in %s state: %w", word, state.Status, domain.ErrTraversalDone)
	}
	position := slices.Index(state.Options, word)
	if position < 0 {
		return nil, fmt.Errorf("choose %q: %w", word, domain.ErrNotOffered)
	}

	next, err := e.Resume(ctx, state)
	if err != nil {
		return nil, err
	}
	next = next.Snapshot()

	if choice.IsSentinel(word) {
		e.emitChoice(ctx, next, word, position, false)
		return e.finish(ctx, next, outcome{reason: reasonMarker, marker: word}), nil
	}

	child, ok := next.Current.Child(word)
	e.emitChoice(ctx, next, word, position, ok)
	if !ok {
		// An explicit key without a node beneath it ends the traversal.
		return e.finish(ctx, next, outcome{reason: reasonNoChild, ending: word}), nil
	}

	next.Current = child
	next.Sentence = append(next.Sentence, word)
	if next.PoemID == "" {
		next.PoemID = child.PoemID
	}

	if len(chain.ValidKeys(child)) <= e.earlyMaxKeys && len(next.Sentence) >= e.earlyMinWords {
		return e.finish(ctx, next, outcome{reason: reasonLowBranching}), nil
	}

	next.Options = choice.Options(child, e.rng)
	if choice.Terminal(next.Options) {
		return e.finish(ctx, next, outcome{reason: reasonDeadEnd}), nil
	}
	return next, nil
}

// finish materialises the poem for state and marks it done.
func (e *Engine) finish(ctx context.Context, state *domain.State, o outcome) *domain.State {
	state.Status = domain.StatusCompleting
	state.Options = nil

	completion := []string{}
	if o.ending == "" {
		completion = chain.Complete(state.Current, e.completionDepth)
	}

	words := append([]string{}, state.Sentence...)
	if o.ending != "" {
		words = append(words, o.ending)
	}
	words = append(words, completion...)

	text := strings.Join(words, " ")
	credit := e.attribution.Attribute(text, state.PoemID)

	state.Poem = &domain.Poem{
		ChainID:    state.ChainID,
		PoemID:     state.PoemID,
		UserPath:   strings.Join(state.Sentence, " "),
		Ending:     o.ending,
		Marker:     o.marker,
		Completion: completion,
		Lines:      verse.Format(words, e.rng),
		Title:      credit.Title,
		Author:     credit.Author,
		Era:        credit.Era,
	}
	state.Status = domain.StatusDone

	e.logger.Debug("poem complete",
		"session_id", state.SessionID,
		"chain", state.ChainID,
		"reason", o.reason,
		"words", len(words),
	)
	e.emitComplete(ctx, state, o.reason)
	return state
}
