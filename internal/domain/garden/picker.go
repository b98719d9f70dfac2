package garden

import (
	"math/rand/v2"
	"sync"
)

// Picker chooses an index in [0, n). The auto-fill engine uses it to pick
// among its best candidates; inject a seeded one for repeatable results.
type Picker interface {
	IntN(n int) int
}

type globalPicker struct{}

func (globalPicker) IntN(n int) int {
	return rand.IntN(n)
}

// NewRandomPicker returns a Picker backed by the process-wide generator
func NewRandomPicker() Picker {
	return globalPicker{}
}

// SeededPicker is a deterministic Picker, safe for concurrent use
type SeededPicker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeededPicker returns a Picker whose sequence is fixed by seed
func NewSeededPicker(seed uint64) *SeededPicker {
	return &SeededPicker{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// IntN returns a pseudo-random index in [0, n)
func (p *SeededPicker) IntN(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.IntN(n)
}
