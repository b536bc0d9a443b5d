package main

import (
	"context"
	"strings"

	"github.com/luno/drunk"
	"github.com/luno/jettison/j"
	"github.com/luno/jettison/log"
)

const baseAlphabet = "abcdefghijklmnopqrstuvwxyz "

// weasel evolves random phrases towards a target phrase.
type weasel struct {
	src      drunk.Source
	target   []rune
	alphabet []rune
	mutation float64
}

func newWeasel(src drunk.Source, target string, mutation float64) weasel {
	alphabet := []rune(baseAlphabet)
	for _, r := range target {
		if !strings.ContainsRune(string(alphabet), r) {
			alphabet = append(alphabet, r)
		}
	}
	return weasel{
		src:      src,
		target:   []rune(target),
		alphabet: alphabet,
		mutation: mutation,
	}
}

// Fitness is one more than the number of characters in place, squared so
// that parents closer to the target are strongly favoured.
func (w weasel) Fitness(phrase string) float64 {
	var n int
	for i, r := range []rune(phrase) {
		if i < len(w.target) && w.target[i] == r {
			n++
		}
	}
	return float64((n + 1) * (n + 1))
}

func (w weasel) randomRune() rune {
	return w.alphabet[int(w.src.Float64()*float64(len(w.alphabet)))%len(w.alphabet)]
}

func (w weasel) Random() string {
	p := make([]rune, len(w.target))
	for i := range p {
		p[i] = w.randomRune()
	}
	return string(p)
}

// Breed takes every character from a random parent and mutates it.
func (w weasel) Breed(parents []string) string {
	rs := make([][]rune, len(parents))
	for i, p := range parents {
		rs[i] = []rune(p)
	}
	child := make([]rune, len(w.target))
	for i := range child {
		parent := rs[int(w.src.Float64()*float64(len(rs)))%len(rs)]
		child[i] = parent[i]
		if w.src.Float64() < w.mutation {
			child[i] = w.randomRune()
		}
	}
	return string(child)
}

func runEvolve(ctx context.Context, src drunk.Source, cfg Evolve, m drunk.Metrics) (string, error) {
	w := newWeasel(src, cfg.Target, cfg.MutationRate)

	initial := make([]string, cfg.Population)
	for i := range initial {
		initial[i] = w.Random()
	}

	o, err := drunk.NewOptimizer(initial, w.Fitness, w.Breed,
		drunk.WithSource(src),
		drunk.WithKeepFittest(true),
		drunk.WithMetrics(m),
	)
	if err != nil {
		return "", err
	}

	best, err := o.Fittest()
	if err != nil {
		return "", err
	}
	for gen := 1; gen <= cfg.Generations && best != cfg.Target; gen++ {
		err := o.Generate(ctx,
			drunk.WithCount(cfg.Children),
			drunk.WithNaturalSelection(cfg.Survivors),
		)
		if err != nil {
			return "", err
		}
		next, err := o.Fittest()
		if err != nil {
			return "", err
		}
		if next != best {
			log.Info(ctx, "fitter phrase", j.MKV{
				"generation": gen,
				"phrase":     next,
				"fitness":    w.Fitness(next),
			})
		}
		best = next
	}
	return best, nil
}
