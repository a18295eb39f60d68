// Package random provides the pseudo-random primitives shared by question
// selection: a small injectable source and a Fisher-Yates shuffle.
package random

import (
	"math/rand"
	"sync"
	"time"
)

// Source yields uniform pseudo-random values. It is satisfied by a seeded
// generator in tests and by the process-wide generator in production. No
// cryptographic guarantees are made or needed.
type Source interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// Intn returns a value in [0, n). n must be > 0.
	Intn(n int) int
}

type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

func (s *lockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// NewSource returns a time-seeded Source safe for use from HTTP handlers.
func NewSource() Source {
	return &lockedSource{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSeededSource returns a deterministic Source for tests.
func NewSeededSource(seed int64) Source {
	return &lockedSource{rng: rand.New(rand.NewSource(seed))}
}

// Shuffle returns a uniformly shuffled copy of items using the Fisher-Yates
// algorithm. The input slice is not modified.
func Shuffle[T any](src Source, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
