package choice

import (
	"math/rand/v2"
	"sync"

	"github.com/aretw0/stanza/pkg/domain"
)

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }
func (globalRand) IntN(n int) int   { return rand.IntN(n) }

// Global is the process-wide random source. It is safe for concurrent use.
var Global domain.Rand = globalRand{}

type lockedRand struct {
	mu  sync.Mutex
	src domain.Rand
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Float64()
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.IntN(n)
}

// Locked wraps src so it can be shared between goroutines.
func Locked(src domain.Rand) domain.Rand {
	return &lockedRand{src: src}
}

// Seeded returns a deterministic, concurrency-safe source.
func Seeded(seed uint64) domain.Rand {
	return Locked(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}
