package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/stanza/pkg/domain"
)

// LogHooks returns lifecycle hooks writing one structured record per event.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnChainLoad: func(ctx context.Context, e *domain.ChainEvent) {
			level := slog.LevelInfo
			if e.Fallback {
				level = slog.LevelWarn
			}
			logger.Log(ctx, level, "chain_load",
				"session_id", e.SessionID,
				"chain_id", e.ChainID,
				"fallback", e.Fallback,
				"nodes", e.Nodes,
				"duration", e.Duration,
			)
		},
		OnChoice: func(ctx context.Context, e *domain.ChoiceEvent) {
			logger.DebugContext(ctx, "choice",
				"session_id", e.SessionID,
				"word", e.Word,
				"position", e.Position,
				"advanced", e.Advanced,
			)
		},
		OnComplete: func(ctx context.Context, e *domain.PoemEvent) {
			logger.InfoContext(ctx, "poem_complete",
				"session_id", e.SessionID,
				"chain_id", e.ChainID,
				"reason", e.Reason,
			)
		},
	}
}

// Combine returns hooks calling each of the given sets in order.
func Combine(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range sets {
		out.OnChainLoad = then(out.OnChainLoad, h.OnChainLoad)
		out.OnChoice = then(out.OnChoice, h.OnChoice)
		out.OnComplete = then(out.OnComplete, h.OnComplete)
	}
	return out
}

func then[E any](first, second func(context.Context, E)) func(context.Context, E) {
	switch {
	case first == nil:
		return second
	case second == nil:
		return first
	}
	return func(ctx context.Context, e E) {
		first(ctx, e)
		second(ctx, e)
	}
}
