package main

import (
	"bytes"
	"os"

	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Items  []Item `yaml:"items"`
	Evolve Evolve `yaml:"evolve"`
}

type Item struct {
	Name   string  `yaml:"name"`
	Weight float64 `yaml:"weight"`
}

func itemWeight(it Item) float64 {
	return it.Weight
}

type Evolve struct {
	Target       string  `yaml:"target"`
	Population   int     `yaml:"population"`
	Generations  int     `yaml:"generations"`
	Children     int     `yaml:"children"`
	Survivors    int     `yaml:"survivors"`
	MutationRate float64 `yaml:"mutation_rate"`
}

func defaultConfig() Config {
	return Config{
		Items: []Item{
			{Name: "heads", Weight: 1},
			{Name: "tails", Weight: 1},
		},
		Evolve: Evolve{
			Target:       "methinks it is like a weasel",
			Population:   20,
			Generations:  1000,
			Children:     20,
			Survivors:    20,
			MutationRate: 0.04,
		},
	}
}

func loadConfig(path string) (Config, error) {
	if path == "" {
		return defaultConfig(), nil
	}
	c, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config", j.KV("path", path))
	}
	return decodeConfig(c)
}

// decodeConfig overlays content on the defaults.
func decodeConfig(content []byte) (Config, error) {
	c := defaultConfig()
	if len(bytes.TrimSpace(content)) == 0 {
		return c, nil
	}
	d := yaml.NewDecoder(bytes.NewReader(content))
	d.KnownFields(true)
	if err := d.Decode(&c); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) validate() error {
	seen := make(map[string]bool)
	for _, it := range c.Items {
		if it.Name == "" {
			return errors.New("item without a name")
		}
		if seen[it.Name] {
			return errors.New("duplicate item", j.KV("name", it.Name))
		}
		seen[it.Name] = true
		if it.Weight < 0 {
			return errors.New("negative weight", j.KV("name", it.Name))
		}
	}
	e := c.Evolve
	if e.Target == "" {
		return errors.New("empty evolve target")
	}
	if e.Population < 2 || e.Survivors < 2 {
		return errors.New("evolve needs at least two units", j.MKV{
			"population": e.Population,
			"survivors":  e.Survivors,
		})
	}
	if e.MutationRate < 0 || e.MutationRate > 1 {
		return errors.New("mutation rate out of range", j.KV("rate", e.MutationRate))
	}
	return nil
}
