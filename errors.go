package drunk

import (
	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
)

var (
	ErrEmptyBundle       = errors.New("empty bundle", j.C("ERR_6f1c2a9e04d3b871"))
	ErrDegenerateWeights = errors.New("total weight is zero", j.C("ERR_b2e47d10c95a3f62"))
	ErrInvalidWeight     = errors.New("weight must be finite and non-negative", j.C("ERR_0d9a6e35f7c1b428"))
	ErrInvalidSampleSize = errors.New("invalid sample size", j.C("ERR_93c58f2b1ae7d046"))

	ErrInsufficientData = errors.New("not enough units to breed", j.C("ERR_5ae80c7d3b2f9164"))
	ErrEmptyPopulation  = errors.New("empty population", j.C("ERR_e71b4d2c08f6a935"))
)
