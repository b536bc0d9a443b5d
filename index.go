package drunk

import (
	"math"
	"sort"

	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
)

// WeightFunc returns the weight of an item. Weights must be finite and
// non-negative.
// A nil WeightFunc weighs every item equally.
type WeightFunc[T any] func(T) float64

// Uniform gives every item a weight of one.
func Uniform[T any](T) float64 {
	return 1
}

// Index is a cumulative weight table over a bundle of items.
// table[0] is 0 and table[i] is the sum of the first i weights, so the
// item at position k owns the interval (table[k], table[k+1]].
type Index struct {
	table []float64
}

// NewIndex builds the cumulative table of bundle under w.
func NewIndex[T any](bundle []T, w WeightFunc[T]) (Index, error) {
	if len(bundle) == 0 {
		return Index{}, ErrEmptyBundle
	}
	if w == nil {
		w = Uniform[T]
	}
	table := make([]float64, len(bundle)+1)
	for i, item := range bundle {
		wt := w(item)
		if wt < 0 || math.IsNaN(wt) || math.IsInf(wt, 0) {
			return Index{}, errors.Wrap(ErrInvalidWeight, "", j.MKV{
				"position": i,
				"weight":   wt,
			})
		}
		table[i+1] = table[i] + wt
	}
	total := table[len(bundle)]
	if math.IsInf(total, 0) {
		return Index{}, errors.Wrap(ErrInvalidWeight, "total weight overflow")
	}
	if total == 0 {
		return Index{}, errors.Wrap(ErrDegenerateWeights, "", j.KV("items", len(bundle)))
	}
	return Index{table: table}, nil
}

// Len returns the number of items covered by the index.
func (ix Index) Len() int {
	if len(ix.table) == 0 {
		return 0
	}
	return len(ix.table) - 1
}

// Total returns the sum of all weights.
func (ix Index) Total() float64 {
	if len(ix.table) == 0 {
		return 0
	}
	return ix.table[len(ix.table)-1]
}

// Pick draws one position, with probability proportional to its weight.
func (ix Index) Pick(src Source) int {
	return ix.search(src.Float64() * ix.Total())
}

func (ix Index) search(r float64) int {
	// Smallest i with table[i] >= r, the item is the one before it.
	i := sort.Search(len(ix.table), func(i int) bool {
		return ix.table[i] >= r
	})
	// A zero variate lands on table[0], the other end is only reachable
	// with a source outside [0,1).
	if i == 0 {
		return ix.firstPositive()
	}
	if i == len(ix.table) {
		return ix.lastPositive()
	}
	return i - 1
}

func (ix Index) firstPositive() int {
	for k := 1; k < len(ix.table); k++ {
		if ix.table[k] > ix.table[k-1] {
			return k - 1
		}
	}
	return 0
}

func (ix Index) lastPositive() int {
	for k := len(ix.table) - 1; k > 0; k-- {
		if ix.table[k] > ix.table[k-1] {
			return k - 1
		}
	}
	return 0
}
