// Package drunkprom exposes optimizer metrics through prometheus.
package drunkprom

import (
	"github.com/luno/drunk"
	"github.com/prometheus/client_golang/prometheus"
)

// NewMetrics creates the optimizer collectors, labelled with the
// optimizer name, and registers them on reg.
func NewMetrics(reg prometheus.Registerer, optimizer string) (drunk.Metrics, error) {
	labels := prometheus.Labels{"optimizer": optimizer}

	breeds := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   "drunk",
		Subsystem:   "optimizer",
		Name:        "breeds_total",
		Help:        "Number of breeds attempted",
		ConstLabels: labels,
	})
	accepted := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   "drunk",
		Subsystem:   "optimizer",
		Name:        "children_accepted_total",
		Help:        "Children added to the population",
		ConstLabels: labels,
	})
	rejected := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   "drunk",
		Subsystem:   "optimizer",
		Name:        "children_rejected_total",
		Help:        "Children discarded for being weightless or duplicates",
		ConstLabels: labels,
	})
	culled := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   "drunk",
		Subsystem:   "optimizer",
		Name:        "culled_units_total",
		Help:        "Units removed by natural selection",
		ConstLabels: labels,
	})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace:   "drunk",
		Subsystem:   "optimizer",
		Name:        "generate_seconds",
		Help:        "Time taken to generate a generation",
		ConstLabels: labels,
	})

	for _, c := range []prometheus.Collector{breeds, accepted, rejected, culled, latency} {
		if err := reg.Register(c); err != nil {
			return drunk.Metrics{}, err
		}
	}

	return drunk.Metrics{
		Breeds:           breeds,
		AcceptedChildren: accepted,
		RejectedChildren: rejected,
		CulledUnits:      culled,
		GenerateLatency:  latency,
	}, nil
}

// NewDrawCounter counts draws per picked item name.
func NewDrawCounter(reg prometheus.Registerer) (*prometheus.CounterVec, error) {
	c := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "drunk",
		Subsystem: "sampler",
		Name:      "draws_total",
		Help:      "Number of times an item has been drawn",
	}, []string{"item", "mode"})
	if err := reg.Register(c); err != nil {
		return nil, err
	}
	return c, nil
}
