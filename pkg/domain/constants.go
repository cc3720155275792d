package domain

// Reserved document keys.
const (
	// ReservedPrefix marks metadata keys that are never words.
	ReservedPrefix = "__"
	// KeyExplicit lists the valid child words of a node explicitly.
	KeyExplicit = "__keys__"
	// KeyPoemID ties a node to the source poem it was extracted from.
	KeyPoemID = "__id__"
)

// Terminal markers offered in place of real words when a node runs short of choices.
const (
	MarkerEllipsis = "..."
	MarkerDash     = "—"
	MarkerEnd      = "[end]"
)

// Markers is the ordered padding list used when fewer than three real words exist.
var Markers = []string{MarkerEllipsis, MarkerDash, MarkerEnd}

// FallbackChainID identifies the built-in chain used when a document cannot be loaded.
const FallbackChainID = "fallback"
