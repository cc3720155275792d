package domain

// Rand is the random source consumed by the engine.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// Pool lists the chain IDs a session may be started with.
type Pool struct {
	// All is the complete list of known chains.
	All []string `json:"all" yaml:"all" mapstructure:"all"`
	// Preferred is the curated subset with rich branching, sampled at session start.
	Preferred []string `json:"preferred" yaml:"preferred" mapstructure:"preferred"`
}

// DefaultPool returns the stock chain pool.
func DefaultPool() Pool {
	return Pool{
		All:       []string{"what", "the", "a", "i", "in", "o", "oh", "there", "when", "1"},
		Preferred: []string{"there", "when", "in"},
	}
}

// Pick draws a chain ID uniformly. With preferred set it draws from the curated
// subset, falling back to All when that subset is empty.
// It returns FallbackChainID when the pool is empty.
func (p Pool) Pick(rng Rand, preferred bool) string {
	candidates := p.All
	if preferred && len(p.Preferred) > 0 {
		candidates = p.Preferred
	}
	if len(candidates) == 0 {
		return FallbackChainID
	}
	return candidates[rng.IntN(len(candidates))]
}

// Contains reports whether id is part of the full pool.
func (p Pool) Contains(id string) bool {
	for _, c := range p.All {
		if c == id {
			return true
		}
	}
	return false
}
