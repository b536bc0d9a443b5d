package drunk

// Counter is satisfied by prometheus.Counter.
type Counter interface {
	Inc()
	Add(v float64)
}

// Measure is satisfied by prometheus.Histogram and prometheus.Summary.
type Measure interface {
	Observe(secs float64)
}

// discard drops every observation.
type discard struct{}

func (discard) Inc()            {}
func (discard) Add(float64)     {}
func (discard) Observe(float64) {}

// Metrics collects what an Optimizer reports. Nil fields are not reported.
type Metrics struct {
	Breeds           Counter
	AcceptedChildren Counter
	RejectedChildren Counter
	CulledUnits      Counter
	GenerateLatency  Measure
}

func orDiscard[M any](m *M) {
	if any(*m) == nil {
		*m = any(discard{}).(M)
	}
}

func (m *Metrics) fillDiscards() {
	for _, c := range []*Counter{&m.Breeds, &m.AcceptedChildren, &m.RejectedChildren, &m.CulledUnits} {
		orDiscard(c)
	}
	orDiscard(&m.GenerateLatency)
}
