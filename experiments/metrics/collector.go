package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Strategy   string
	Duration   time.Duration
	Iterations int
	Expansions int
	Failures   int
}

type MoveMetric struct {
	Step   int
	Action string
	Score  int
	SearchMetric
}

type GameMetric struct {
	Agent      string
	Layout     string
	Seed       int64
	Won        bool
	Lost       bool
	Score      int
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalMoves int
}

// Collector records the effort a strategy spends on one decision. Start resets the
// counters; Complete snapshots them.
type Collector interface {
	Start(strategy string)
	AddIteration()
	AddExpansion()
	AddFailure()
	Complete() SearchMetric
}

type collector struct {
	strategy   atomic.Value
	startTime  atomic.Value
	iterations atomic.Int32
	expansions atomic.Int32
	failures   atomic.Int32
}

func NewCollector() Collector {
	c := &collector{}
	c.strategy.Store("")
	c.startTime.Store(time.Now())
	return c
}

func (m *collector) Start(strategy string) {
	m.strategy.Store(strategy)
	m.startTime.Store(time.Now())
	m.iterations.Store(0)
	m.expansions.Store(0)
	m.failures.Store(0)
}

func (m *collector) AddIteration() {
	m.iterations.Add(1)
}

func (m *collector) AddExpansion() {
	m.expansions.Add(1)
}

func (m *collector) AddFailure() {
	m.failures.Add(1)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Strategy:   m.strategy.Load().(string),
		Duration:   time.Since(m.startTime.Load().(time.Time)),
		Iterations: int(m.iterations.Load()),
		Expansions: int(m.expansions.Load()),
		Failures:   int(m.failures.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(strategy string)  {}
func (m *dummyCollector) AddIteration()          {}
func (m *dummyCollector) AddExpansion()          {}
func (m *dummyCollector) AddFailure()            {}
func (m *dummyCollector) Complete() SearchMetric { return SearchMetric{} }
