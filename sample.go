package drunk

import (
	"iter"

	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
)

// Choice returns one item of bundle chosen with probability proportional to
// its weight.
func Choice[T any](src Source, bundle []T, w WeightFunc[T]) (T, error) {
	ix, err := NewIndex(bundle, w)
	if err != nil {
		var zero T
		return zero, err
	}
	return bundle[ix.Pick(src)], nil
}

// Shuffle returns a weighted random permutation of bundle. Items are drawn
// one by one without replacement, the weights of the remaining items being
// recomputed for every draw, so heavier items tend to come first.
// Once the remaining items weigh nothing they are drawn uniformly.
func Shuffle[T any](src Source, bundle []T, w WeightFunc[T]) ([]T, error) {
	if len(bundle) == 0 {
		return nil, ErrEmptyBundle
	}
	return drawWithoutReplacement(src, bundle, len(bundle), w)
}

// Sample draws size items from bundle without replacement.
func Sample[T any](src Source, bundle []T, size int, w WeightFunc[T]) ([]T, error) {
	if len(bundle) == 0 && size > 0 {
		return nil, ErrEmptyBundle
	}
	if size < 0 || size > len(bundle) {
		return nil, errors.Wrap(ErrInvalidSampleSize, "", j.MKV{
			"size":   size,
			"bundle": len(bundle),
		})
	}
	if size == 0 {
		return []T{}, nil
	}
	return drawWithoutReplacement(src, bundle, size, w)
}

// RandomSample is Sample with a size drawn uniformly from [0, len(bundle)).
func RandomSample[T any](src Source, bundle []T, w WeightFunc[T]) ([]T, error) {
	if len(bundle) == 0 {
		return nil, ErrEmptyBundle
	}
	return Sample(src, bundle, intn(src, len(bundle)), w)
}

func drawWithoutReplacement[T any](src Source, bundle []T, size int, w WeightFunc[T]) ([]T, error) {
	if len(bundle) == 0 {
		return nil, ErrEmptyBundle
	}
	work := make([]T, len(bundle))
	copy(work, bundle)

	ret := make([]T, 0, size)
	for len(ret) < size {
		var pos int
		ix, err := NewIndex(work, w)
		if errors.Is(err, ErrDegenerateWeights) {
			pos = intn(src, len(work))
		} else if err != nil {
			return nil, err
		} else {
			pos = ix.Pick(src)
		}
		ret = append(ret, work[pos])
		work = append(work[:pos], work[pos+1:]...)
	}
	return ret, nil
}

// Picker draws items independently from a bundle frozen at creation.
type Picker[T any] struct {
	src    Source
	bundle []T
	index  Index
}

// NewPicker freezes a copy of bundle and its weights for repeated draws.
func NewPicker[T any](src Source, bundle []T, w WeightFunc[T]) (*Picker[T], error) {
	frozen := make([]T, len(bundle))
	copy(frozen, bundle)
	ix, err := NewIndex(frozen, w)
	if err != nil {
		return nil, err
	}
	return &Picker[T]{src: src, bundle: frozen, index: ix}, nil
}

// Pull draws one item, with replacement.
func (p *Picker[T]) Pull() T {
	return p.bundle[p.index.Pick(p.src)]
}

// All returns an endless sequence of independent draws.
func (p *Picker[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			if !yield(p.Pull()) {
				return
			}
		}
	}
}
