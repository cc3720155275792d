package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrChainNotFound is returned by loaders when no document exists for a chain ID.
var ErrChainNotFound = errors.New("chain not found")

// ErrInvalidChain is returned when a chain document cannot be parsed into a tree.
var ErrInvalidChain = errors.New("invalid chain document")

// ErrNotOffered is returned when a chosen word is not among the options of the last turn.
var ErrNotOffered = errors.New("word was not offered")

// ErrTraversalDone is returned when a choice is submitted to a finished traversal.
var ErrTraversalDone = errors.New("traversal already completed")
