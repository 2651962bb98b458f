package rewrite

import (
	"math/rand/v2"
	"sync"
)

// Picker chooses an index in [0, n). Rewriters share one Picker across
// goroutines, so implementations must be safe for concurrent use.
type Picker interface {
	IntN(n int) int
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

// NewPicker returns a deterministic Picker for seed.
func NewPicker(seed uint64) Picker {
	return &lockedRand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// RandomPicker returns a Picker seeded from the runtime's random source.
func RandomPicker() Picker {
	return NewPicker(rand.Uint64())
}

// FirstPicker always picks the first candidate.
type FirstPicker struct{}

// IntN returns 0.
func (FirstPicker) IntN(int) int { return 0 }
