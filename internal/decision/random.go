package decision

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"
)

// Source is the randomness a simulated decision draws from.
type Source interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// IntN returns a value in [0, n).
	IntN(n int) int
}

type lockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSource returns a seeded Source safe for concurrent use. A zero seed is
// replaced by the current time.
func NewSource(seed int64) Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s := uint64(seed)
	return &lockedSource{r: rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))}
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

func (s *lockedSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.IntN(n)
}

// Uniform draws from [lo, hi).
func Uniform(src Source, lo, hi float64) float64 {
	v := src.Float64()*(hi-lo) + lo
	if v >= hi {
		// rounding can land exactly on hi for draws close to 1
		v = math.Nextafter(hi, lo)
	}
	return v
}
