package main

import (
	"context"
	"strings"

	"github.com/luno/drunk"
	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
	"github.com/luno/jettison/log"
	"github.com/prometheus/client_golang/prometheus"
)

var errNegativeDraws = errors.New("draws must not be negative")

const (
	modeChoice  = "choice"
	modeStatic  = "static"
	modeShuffle = "shuffle"
	modeSample  = "sample"
	modeEvolve  = "evolve"
)

type sampling struct {
	src   drunk.Source
	items []Item
	draws *prometheus.CounterVec
}

func (s sampling) record(mode string, items ...Item) {
	for _, it := range items {
		s.draws.WithLabelValues(it.Name, mode).Inc()
	}
}

// drawRepeated draws n items, one at a time, and returns how often each
// name came up.
func (s sampling) drawRepeated(ctx context.Context, mode string, n int) (map[string]int, error) {
	if n < 0 {
		return nil, errors.Wrap(errNegativeDraws, "", j.KV("draws", n))
	}
	counts := make(map[string]int)
	switch mode {
	case modeChoice:
		for range n {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			it, err := drunk.Choice(s.src, s.items, itemWeight)
			if err != nil {
				return nil, err
			}
			s.record(mode, it)
			counts[it.Name]++
		}
	case modeStatic:
		p, err := drunk.NewPicker(s.src, s.items, itemWeight)
		if err != nil {
			return nil, err
		}
		var i int
		for it := range p.All() {
			if i >= n {
				break
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			s.record(mode, it)
			counts[it.Name]++
			i++
		}
	default:
		return nil, errors.New("not a repeated draw mode", j.KV("mode", mode))
	}
	return counts, nil
}

// drawOnce runs a single shuffle or sample. A negative size samples a random
// number of items.
func (s sampling) drawOnce(mode string, size int) ([]string, error) {
	var (
		res []Item
		err error
	)
	switch mode {
	case modeShuffle:
		res, err = drunk.Shuffle(s.src, s.items, itemWeight)
	case modeSample:
		if size < 0 {
			res, err = drunk.RandomSample(s.src, s.items, itemWeight)
		} else {
			res, err = drunk.Sample(s.src, s.items, size, itemWeight)
		}
	default:
		return nil, errors.New("not a single draw mode", j.KV("mode", mode))
	}
	if err != nil {
		return nil, err
	}
	s.record(mode, res...)

	names := make([]string, 0, len(res))
	for _, it := range res {
		names = append(names, it.Name)
	}
	return names, nil
}

func (s sampling) run(ctx context.Context, mode string, draws, size int) error {
	switch mode {
	case modeChoice, modeStatic:
		counts, err := s.drawRepeated(ctx, mode, draws)
		if err != nil {
			return err
		}
		freq := make(j.MKV, len(counts))
		for name, c := range counts {
			freq[name] = float64(c) / float64(draws)
		}
		log.Info(ctx, "draw frequencies", j.KV("mode", mode), j.KV("draws", draws), freq)
	case modeShuffle, modeSample:
		names, err := s.drawOnce(mode, size)
		if err != nil {
			return err
		}
		log.Info(ctx, "drawn", j.KV("mode", mode), j.KV("items", strings.Join(names, ",")))
	default:
		return errors.New("unknown mode", j.KV("mode", mode))
	}
	return nil
}
