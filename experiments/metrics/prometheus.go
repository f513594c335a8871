package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pursuit"

// Exporter publishes search effort and game outcomes to Prometheus. Create one per
// registry and wrap every agent's collector with it.
type Exporter struct {
	Iterations *prometheus.CounterVec
	Expansions *prometheus.CounterVec
	Failures   *prometheus.CounterVec
	Decisions  *prometheus.HistogramVec
	Games      *prometheus.CounterVec
	Scores     *prometheus.HistogramVec
}

func NewExporter(registerer prometheus.Registerer) *Exporter {
	factory := promauto.With(registerer)
	return &Exporter{
		Iterations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_iterations_total",
			Help:      "Main loop iterations spent by strategy",
		}, []string{"strategy"}),
		Expansions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_expansions_total",
			Help:      "Nodes or generations expanded by strategy",
		}, []string{"strategy"}),
		Failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulator_failures_total",
			Help:      "Successors the simulator refused to generate by strategy",
		}, []string{"strategy"}),
		Decisions: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "decision_duration_seconds",
			Help:      "Time spent choosing one action",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"strategy"}),
		Games: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_total",
			Help:      "Finished games by agent, layout and result",
		}, []string{"agent", "layout", "result"}),
		Scores: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "game_score",
			Help:      "Final game scores",
			Buckets:   prometheus.LinearBuckets(-600, 200, 10),
		}, []string{"agent", "layout"}),
	}
}

// Wrap returns a collector that forwards to inner and exports every count.
func (e *Exporter) Wrap(inner Collector) Collector {
	if inner == nil {
		inner = NewCollector()
	}
	return &exportingCollector{inner: inner, exporter: e}
}

// ObserveGame records a finished game.
func (e *Exporter) ObserveGame(g GameMetric) {
	result := "undecided"
	switch {
	case g.Won:
		result = "won"
	case g.Lost:
		result = "lost"
	}
	e.Games.WithLabelValues(g.Agent, g.Layout, result).Inc()
	e.Scores.WithLabelValues(g.Agent, g.Layout).Observe(float64(g.Score))
}

type exportingCollector struct {
	inner      Collector
	exporter   *Exporter
	iterations prometheus.Counter
	expansions prometheus.Counter
	failures   prometheus.Counter
	strategy   string
}

func (c *exportingCollector) Start(strategy string) {
	c.inner.Start(strategy)
	if c.iterations == nil || c.strategy != strategy {
		c.strategy = strategy
		c.iterations = c.exporter.Iterations.WithLabelValues(strategy)
		c.expansions = c.exporter.Expansions.WithLabelValues(strategy)
		c.failures = c.exporter.Failures.WithLabelValues(strategy)
	}
}

func (c *exportingCollector) AddIteration() {
	c.inner.AddIteration()
	if c.iterations != nil {
		c.iterations.Inc()
	}
}

func (c *exportingCollector) AddExpansion() {
	c.inner.AddExpansion()
	if c.expansions != nil {
		c.expansions.Inc()
	}
}

func (c *exportingCollector) AddFailure() {
	c.inner.AddFailure()
	if c.failures != nil {
		c.failures.Inc()
	}
}

func (c *exportingCollector) Complete() SearchMetric {
	m := c.inner.Complete()
	if c.strategy != "" {
		c.exporter.Decisions.WithLabelValues(c.strategy).Observe(m.Duration.Seconds())
	}
	return m
}
