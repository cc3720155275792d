package runtime

import (
	"context"
	"time"

	"github.com/aretw0/stanza/pkg/domain"
)

func (e *Engine) base(state *domain.State, typ domain.EventType) domain.EventBase {
	return domain.EventBase{
		Timestamp: time.Now(),
		Type:      typ,
		SessionID: state.SessionID,
		ChainID:   state.ChainID,
	}
}

func (e *Engine) emitChainLoad(ctx context.Context, state *domain.State, nodes int, took time.Duration, err error) {
	if e.hooks.OnChainLoad == nil {
		return
	}
	e.hooks.OnChainLoad(ctx, &domain.ChainEvent{
		EventBase: e.base(state, domain.EventChainLoad),
		Fallback:  state.Fallback,
		Nodes:     nodes,
		Duration:  took,
		Err:       err,
	})
}

func (e *Engine) emitChoice(ctx context.Context, state *domain.State, word string, position int, advanced bool) {
	if e.hooks.OnChoice == nil {
		return
	}
	e.hooks.OnChoice(ctx, &domain.ChoiceEvent{
		EventBase: e.base(state, domain.EventChoice),
		Word:      word,
		Position:  position,
		Advanced:  advanced,
	})
}

func (e *Engine) emitComplete(ctx context.Context, state *domain.State, reason string) {
	if e.hooks.OnComplete == nil {
		return
	}
	e.hooks.OnComplete(ctx, &domain.PoemEvent{
		EventBase: e.base(state, domain.EventComplete),
		Poem:      state.Poem,
		Reason:    reason,
	})
}
