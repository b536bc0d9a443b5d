package drunk

import (
	"context"
	"math"
	"slices"
	"testing"

	"github.com/luno/jettison/jtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countMetric struct {
	n float64
}

func (c *countMetric) Inc()              { c.n++ }
func (c *countMetric) Add(v float64)     { c.n += v }
func (c *countMetric) Observe(v float64) { c.n++ }

func sumBreed(parents []int) int {
	var s int
	for _, p := range parents {
		s += p
	}
	return s
}

func identity(x int) float64 {
	return float64(x)
}

func TestNewOptimizerInsufficientData(t *testing.T) {
	_, err := NewOptimizer([]int{1}, identity, sumBreed)
	jtest.Assert(t, ErrInsufficientData, err)

	_, err = NewOptimizer(nil, identity, sumBreed)
	jtest.Assert(t, ErrInsufficientData, err)
}

func TestNewOptimizerFiltersWeightless(t *testing.T) {
	o, err := NewOptimizer([]int{-1, 0, 3, 1}, func(x int) float64 {
		if x < 0 {
			return 0
		}
		return float64(x)
	}, sumBreed, WithSource(NewSource(1)))
	jtest.RequireNil(t, err)
	assert.Equal(t, []int{3, 1}, o.Population())
}

func TestNewOptimizerFiltersBrokenWeights(t *testing.T) {
	o, err := NewOptimizer([]int{1, 2, 3, 4}, func(x int) float64 {
		switch x {
		case 2:
			return math.NaN()
		case 3:
			return math.Inf(1)
		}
		return float64(x)
	}, sumBreed, WithSource(NewSource(1)))
	jtest.RequireNil(t, err)
	assert.Equal(t, []int{1, 4}, o.Population())
}

func TestNewOptimizerUniformWeight(t *testing.T) {
	o, err := NewOptimizer([]int{-1, 0, 7}, nil, sumBreed, WithSource(NewSource(1)))
	jtest.RequireNil(t, err)
	assert.Equal(t, []int{-1, 0, 7}, o.Population())

	best, err := o.Fittest()
	jtest.RequireNil(t, err)
	assert.Equal(t, -1, best)
	jtest.RequireNil(t, o.Breed())
}

func TestNewOptimizerInvalidUnits(t *testing.T) {
	_, err := NewOptimizer([]int{1, 2}, identity, sumBreed, WithUnitsPerBreed(0))
	require.Error(t, err)
}

func TestBreed(t *testing.T) {
	var gotParents [][]int
	breed := func(parents []int) int {
		gotParents = append(gotParents, append([]int(nil), parents...))
		return sumBreed(parents)
	}
	// Population [1, 2] has cumulative table [0, 1, 3].
	src := fixedSource(t, 0.1, 0.9, 0.1, 0.15, 0.6, 0.6)
	o, err := NewOptimizer([]int{1, 2}, identity, breed, WithSource(src), WithUnitsPerBreed(2))
	jtest.RequireNil(t, err)

	jtest.RequireNil(t, o.Breed())
	jtest.RequireNil(t, o.Breed())
	jtest.RequireNil(t, o.Breed())

	assert.Equal(t, [][]int{{1, 2}, {1, 1}, {3, 3}}, gotParents)
	assert.Equal(t, []int{1, 2, 3, 6}, o.Population())
}

func TestBreedRejectsChildren(t *testing.T) {
	accepted := new(countMetric)
	rejected := new(countMetric)
	breeds := new(countMetric)

	// 98 and 99 stand for children whose weight is broken.
	weight := func(x int) float64 {
		switch x {
		case 98:
			return math.NaN()
		case 99:
			return math.Inf(1)
		}
		return float64(x)
	}

	testCases := []struct {
		name  string
		breed BreedFunc[int]
	}{
		{name: "duplicate", breed: func(parents []int) int { return parents[0] }},
		{name: "weightless", breed: func([]int) int { return 0 }},
		{name: "negative", breed: func([]int) int { return -5 }},
		{name: "nan", breed: func([]int) int { return 98 }},
		{name: "inf", breed: func([]int) int { return 99 }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			o, err := NewOptimizer([]int{1, 2, 3}, weight, tc.breed,
				WithSource(NewSource(4)),
				WithMetrics(Metrics{
					Breeds:           breeds,
					AcceptedChildren: accepted,
					RejectedChildren: rejected,
				}),
			)
			jtest.RequireNil(t, err)
			jtest.RequireNil(t, o.Breed())
			assert.Equal(t, []int{1, 2, 3}, o.Population())

			// Breeding still works after a rejected child.
			jtest.RequireNil(t, o.Breed())
		})
	}
	assert.Equal(t, 10.0, breeds.n)
	assert.Equal(t, 10.0, rejected.n)
	assert.Equal(t, 0.0, accepted.n)
}

func TestGenerateZeroCount(t *testing.T) {
	o, err := NewOptimizer([]int{1, 2, 3}, identity, sumBreed, WithSource(NewSource(1)))
	jtest.RequireNil(t, err)

	jtest.RequireNil(t, o.Generate(context.Background(), WithCount(0)))
	assert.Equal(t, []int{1, 2, 3}, o.Population())
}

func TestGenerateCount(t *testing.T) {
	var calls int
	breed := func(parents []int) int {
		calls++
		return 100 + calls
	}
	o, err := NewOptimizer([]int{1, 2}, identity, breed, WithSource(NewSource(1)))
	jtest.RequireNil(t, err)

	jtest.RequireNil(t, o.Generate(context.Background(), WithCount(5)))
	assert.Equal(t, 5, calls)
	assert.Equal(t, []int{1, 2, 101, 102, 103, 104, 105}, o.Population())
}

func TestGenerateRandomCount(t *testing.T) {
	var calls int
	breed := func(parents []int) int {
		calls++
		return 100 + calls
	}
	// The first variate picks the count: 0.7 of a population of 3 is 2.
	src := fixedSource(t, 0.7, 0.1, 0.1, 0.1, 0.1)
	o, err := NewOptimizer([]int{1, 2, 3}, identity, breed, WithSource(src))
	jtest.RequireNil(t, err)

	jtest.RequireNil(t, o.Generate(context.Background()))
	assert.Equal(t, 2, calls)
	assert.Len(t, o.Population(), 5)
}

func TestGenerateNaturalSelection(t *testing.T) {
	testCases := []struct {
		name        string
		keepFittest bool
		survivors   int
		expPop      []int
		expCulled   float64
	}{
		{name: "literal ascending", survivors: 2, expPop: []int{1, 2}, expCulled: 2},
		{name: "keep fittest", keepFittest: true, survivors: 2, expPop: []int{4, 3}, expCulled: 2},
		{name: "more than population", survivors: 10, expPop: []int{1, 2, 3, 4}},
		{name: "more than population fittest", keepFittest: true, survivors: 10, expPop: []int{4, 3, 2, 1}},
		{name: "none", survivors: 0, expPop: []int{}, expCulled: 4},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			culled := new(countMetric)
			o, err := NewOptimizer([]int{3, 1, 4, 2}, identity, sumBreed,
				WithSource(NewSource(1)),
				WithKeepFittest(tc.keepFittest),
				WithMetrics(Metrics{CulledUnits: culled}),
			)
			jtest.RequireNil(t, err)

			err = o.Generate(context.Background(), WithCount(0), WithNaturalSelection(tc.survivors))
			jtest.RequireNil(t, err)
			assert.Equal(t, tc.expPop, o.Population())
			assert.Equal(t, tc.expCulled, culled.n)
		})
	}
}

func TestGenerateCancelled(t *testing.T) {
	o, err := NewOptimizer([]int{1, 2}, identity, sumBreed, WithSource(NewSource(1)))
	jtest.RequireNil(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = o.Generate(ctx, WithCount(10))
	jtest.Assert(t, context.Canceled, err)
	assert.Equal(t, []int{1, 2}, o.Population())
}

func TestFittest(t *testing.T) {
	orders := [][]int{
		{1, 2, 3},
		{3, 2, 1},
		{2, 3, 1},
	}
	for _, pop := range orders {
		o, err := NewOptimizer(pop, square, sumBreed, WithSource(NewSource(1)))
		jtest.RequireNil(t, err)

		best, err := o.Fittest()
		jtest.RequireNil(t, err)
		assert.Equal(t, 3, best)
	}
}

func TestFittestEmptyPopulation(t *testing.T) {
	o, err := NewOptimizer([]int{1, 2}, identity, sumBreed, WithSource(NewSource(1)))
	jtest.RequireNil(t, err)

	jtest.RequireNil(t, o.Generate(context.Background(), WithCount(0), WithNaturalSelection(0)))
	_, err = o.Fittest()
	jtest.Assert(t, ErrEmptyPopulation, err)

	err = o.Generate(context.Background())
	jtest.Assert(t, ErrEmptyPopulation, err)

	err = o.Breed()
	jtest.Assert(t, ErrEmptyBundle, err)
}

func TestOptimizerImproves(t *testing.T) {
	// Children are one better than their best parent.
	breed := func(parents []int) int {
		return slices.Max(parents) + 1
	}
	o, err := NewOptimizer([]int{1, 2, 3}, identity, breed,
		WithSource(NewSource(8)),
		WithKeepFittest(true),
	)
	jtest.RequireNil(t, err)

	ctx := context.Background()
	for range 50 {
		jtest.RequireNil(t, o.Generate(ctx, WithCount(5), WithNaturalSelection(5)))
	}
	best, err := o.Fittest()
	jtest.RequireNil(t, err)
	assert.Greater(t, best, 10)
}
