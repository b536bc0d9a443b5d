package drunk

import (
	"math/rand"
)

// Source provides uniform variates in [0,1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// SourceFunc adapts a plain function to a Source.
type SourceFunc func() float64

func (f SourceFunc) Float64() float64 {
	return f()
}

// NewSource returns a Source seeded with seed.
func NewSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

// intn draws an integer uniformly from [0, n).
func intn(src Source, n int) int {
	if n <= 0 {
		return 0
	}
	i := int(src.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}
