package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventChainLoad EventType = "chain_load"
	EventChoice    EventType = "choice"
	EventComplete  EventType = "complete"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
	ChainID   string    `json:"chain_id"`
}

// ChainEvent is emitted after a chain is loaded (or replaced by the fallback).
type ChainEvent struct {
	EventBase
	Fallback bool          `json:"fallback"`
	Nodes    int           `json:"nodes"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// ChoiceEvent is emitted for every word submitted by a visitor.
type ChoiceEvent struct {
	EventBase
	Word     string `json:"word"`
	Position int    `json:"position"` // Index of the word among the offered options
	Advanced bool   `json:"advanced"` // False when the word had no node beneath it
}

// PoemEvent is emitted when a traversal completes.
type PoemEvent struct {
	EventBase
	Poem   *Poem  `json:"poem"`
	Reason string `json:"reason"` // dead_end, marker, low_branching or no_child
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnChainLoad func(context.Context, *ChainEvent)
	OnChoice    func(context.Context, *ChoiceEvent)
	OnComplete  func(context.Context, *PoemEvent)
}
