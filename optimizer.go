package drunk

import (
	"context"
	"math"
	"slices"
	"sort"
	"time"

	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
	"github.com/luno/jettison/log"
)

// BreedFunc produces a child from a set of parents.
type BreedFunc[T any] func(parents []T) T

// Optimizer is a simple genetic optimizer. Parents are picked by weight from
// the population, and children that weigh nothing or already exist are
// discarded.
//
// An Optimizer is not safe for concurrent use.
type Optimizer[T comparable] struct {
	weight WeightFunc[T]
	breed  BreedFunc[T]

	src           Source
	unitsPerBreed int
	keepFittest   bool
	metrics       Metrics

	population []T
}

type OptimizerOption func(*optimizerConfig)

type optimizerConfig struct {
	src           Source
	unitsPerBreed int
	keepFittest   bool
	metrics       Metrics
}

// WithSource sets the source of randomness, a time seeded one is used by
// default.
func WithSource(src Source) OptimizerOption {
	return func(c *optimizerConfig) {
		c.src = src
	}
}

// WithUnitsPerBreed sets how many parents are drawn for every child.
func WithUnitsPerBreed(n int) OptimizerOption {
	return func(c *optimizerConfig) {
		c.unitsPerBreed = n
	}
}

// WithKeepFittest makes natural selection keep the heaviest units. Without
// it the population is sorted by ascending weight and the first units are
// kept.
func WithKeepFittest(keep bool) OptimizerOption {
	return func(c *optimizerConfig) {
		c.keepFittest = keep
	}
}

// WithMetrics reports breeding and selection counts to m.
func WithMetrics(m Metrics) OptimizerOption {
	return func(c *optimizerConfig) {
		c.metrics = m
	}
}

// NewOptimizer starts an optimizer from the units of initial that can breed.
func NewOptimizer[T comparable](initial []T, w WeightFunc[T], breed BreedFunc[T],
	opts ...OptimizerOption,
) (*Optimizer[T], error) {
	if len(initial) < 2 {
		return nil, errors.Wrap(ErrInsufficientData, "", j.KV("units", len(initial)))
	}
	c := optimizerConfig{unitsPerBreed: 2}
	for _, opt := range opts {
		opt(&c)
	}
	if c.src == nil {
		c.src = NewSource(time.Now().UnixNano())
	}
	if w == nil {
		w = Uniform[T]
	}
	if c.unitsPerBreed < 1 {
		return nil, errors.New("units per breed must be positive", j.KV("units", c.unitsPerBreed))
	}
	c.metrics.fillDiscards()

	pop := make([]T, 0, len(initial))
	for _, unit := range initial {
		if viable(w(unit)) {
			pop = append(pop, unit)
		}
	}

	return &Optimizer[T]{
		weight:        w,
		breed:         breed,
		src:           c.src,
		unitsPerBreed: c.unitsPerBreed,
		keepFittest:   c.keepFittest,
		metrics:       c.metrics,
		population:    pop,
	}, nil
}

// Population returns a copy of the current population.
func (o *Optimizer[T]) Population() []T {
	return slices.Clone(o.population)
}

// Breed creates a new unit and adds it to the population.
func (o *Optimizer[T]) Breed() error {
	parents := make([]T, 0, o.unitsPerBreed)
	for range o.unitsPerBreed {
		p, err := Choice(o.src, o.population, o.weight)
		if err != nil {
			return errors.Wrap(err, "choose parent")
		}
		parents = append(parents, p)
	}
	o.metrics.Breeds.Inc()

	child := o.breed(parents)
	if !viable(o.weight(child)) || slices.Contains(o.population, child) {
		o.metrics.RejectedChildren.Inc()
		return nil
	}
	o.population = append(o.population, child)
	o.metrics.AcceptedChildren.Inc()
	return nil
}

// viable reports whether a unit with weight w can take part in a draw.
func viable(w float64) bool {
	return w > 0 && !math.IsInf(w, 1)
}

type GenerateOption func(*generation)

type generation struct {
	count    int
	hasCount bool

	survivors    int
	hasSelection bool
}

// WithCount sets the number of breeds, by default it is drawn from
// [0, len(population)).
func WithCount(n int) GenerateOption {
	return func(g *generation) {
		g.count = n
		g.hasCount = true
	}
}

// WithNaturalSelection truncates the population to n units after breeding.
func WithNaturalSelection(n int) GenerateOption {
	return func(g *generation) {
		g.survivors = n
		g.hasSelection = true
	}
}

// Generate breeds a new generation.
func (o *Optimizer[T]) Generate(ctx context.Context, opts ...GenerateOption) error {
	t0 := time.Now()
	defer func() {
		o.metrics.GenerateLatency.Observe(time.Since(t0).Seconds())
	}()

	var g generation
	for _, opt := range opts {
		opt(&g)
	}
	if !g.hasCount {
		if len(o.population) == 0 {
			return ErrEmptyPopulation
		}
		g.count = intn(o.src, len(o.population))
	}

	for range g.count {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := o.Breed(); err != nil {
			return err
		}
	}

	if g.hasSelection {
		o.naturalSelection(ctx, g.survivors)
	}
	return nil
}

func (o *Optimizer[T]) naturalSelection(ctx context.Context, survivors int) {
	if survivors < 0 {
		survivors = 0
	}
	sort.SliceStable(o.population, func(i, k int) bool {
		if o.keepFittest {
			return o.weight(o.population[i]) > o.weight(o.population[k])
		}
		return o.weight(o.population[i]) < o.weight(o.population[k])
	})
	if survivors >= len(o.population) {
		return
	}
	culled := len(o.population) - survivors
	clear(o.population[survivors:])
	o.population = o.population[:survivors]
	o.metrics.CulledUnits.Add(float64(culled))

	log.Info(ctx, "natural selection", j.MKV{
		"culled":       culled,
		"survivors":    survivors,
		"keep_fittest": o.keepFittest,
	})
}

// Fittest returns the heaviest unit of the population.
func (o *Optimizer[T]) Fittest() (T, error) {
	if len(o.population) == 0 {
		var zero T
		return zero, ErrEmptyPopulation
	}
	best := o.population[0]
	bestW := o.weight(best)
	for _, unit := range o.population[1:] {
		if w := o.weight(unit); w > bestW {
			best, bestW = unit, w
		}
	}
	return best, nil
}
