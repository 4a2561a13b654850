package color

import (
	"math/rand/v2"
	"sync"
)

// Generator produces target colors for new rounds.
type Generator interface {
	Generate() RGB
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func() RGB

func (f GeneratorFunc) Generate() RGB { return f() }

// Random draws each channel independently and uniformly from [0,255].
// It owns its PCG source and may be shared between sessions.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom returns a Random seeded from the runtime's entropy.
func NewRandom() *Random {
	return NewRandomSeeded(rand.Uint64(), rand.Uint64())
}

// NewRandomSeeded returns a Random with a fixed PCG seed (reproducible sequences).
func NewRandomSeeded(seed1, seed2 uint64) *Random {
	return &Random{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

// Generate returns a fresh uniformly random color.
func (g *Random) Generate() RGB {
	g.mu.Lock()
	defer g.mu.Unlock()
	return RGB{
		R: uint8(g.rng.IntN(MaxComponent + 1)),
		G: uint8(g.rng.IntN(MaxComponent + 1)),
		B: uint8(g.rng.IntN(MaxComponent + 1)),
	}
}
