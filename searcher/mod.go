package searcher

import (
	"math"
	"pursuit/experiments/metrics"
	"pursuit/game"
	"time"

	"golang.org/x/exp/rand"
)

// Fallback is returned whenever a strategy cannot find anything better.
const Fallback = game.Stop

// Fixed shapes of the sequence-based strategies
const (
	SequenceLength = 5
	PopulationSize = 8
)

const DefaultIterations = 10000

// Strategy chooses one action per decision tick.
type Strategy interface {
	// OnEpisodeStart is called once with the initial state of an episode.
	OnEpisodeStart(state game.State)
	// ChooseAction always returns an action, falling back to Stop.
	ChooseAction(state game.State) game.Action
}

type Option func(c *config)

type config struct {
	rng          *rand.Rand
	iterations   int
	duration     time.Duration
	evaluate     game.Evaluate
	compare      game.Compare
	exploration  float64
	rolloutDepth int
	metrics      metrics.Collector
}

func newConfig(options []Option) config {
	c := config{ // Default values
		rng:          rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
		iterations:   DefaultIterations,
		evaluate:     game.ScoreEvaluation,
		compare:      game.NormalizedScoreEvaluation,
		exploration:  1.0,
		rolloutDepth: SequenceLength,
		metrics:      metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(&c)
	}
	return c
}

// WithSeed makes every random draw of the strategy reproducible.
func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRand shares a generator between strategies.
func WithRand(rng *rand.Rand) Option {
	return func(c *config) {
		if rng != nil {
			c.rng = rng
		}
	}
}

// WithIterations caps the main loop of a strategy. For tree searches it caps node expansions.
func WithIterations(iterations int) Option {
	return func(c *config) {
		if iterations > 0 {
			c.iterations = iterations
		}
	}
}

// WithDuration adds a wall-clock limit on top of the iteration cap.
func WithDuration(duration time.Duration) Option {
	return func(c *config) {
		if duration > 0 {
			c.duration = duration
		}
	}
}

func WithEvaluationFn(evaluate game.Evaluate) Option {
	return func(c *config) {
		if evaluate != nil {
			c.evaluate = evaluate
		}
	}
}

func WithCompareFn(compare game.Compare) Option {
	return func(c *config) {
		if compare != nil {
			c.compare = compare
		}
	}
}

// WithExploration sets the UCB1 exploration constant.
func WithExploration(constant float64) Option {
	return func(c *config) {
		if constant >= 0 && !math.IsNaN(constant) {
			c.exploration = constant
		}
	}
}

func WithRolloutDepth(depth int) Option {
	return func(c *config) {
		if depth > 0 {
			c.rolloutDepth = depth
		}
	}
}

func WithMetrics(collector metrics.Collector) Option {
	return func(c *config) {
		if collector != nil {
			c.metrics = collector
		}
	}
}

// budget bounds a main loop by iterations and, optionally, wall-clock time.
type budget struct {
	remaining int
	deadline  time.Time
	metrics   metrics.Collector
}

func (c *config) newBudget() *budget {
	b := &budget{remaining: c.iterations, metrics: c.metrics}
	if c.duration > 0 {
		b.deadline = time.Now().Add(c.duration)
	}
	return b
}

// next consumes one iteration, reporting false once the budget is spent.
func (b *budget) next() bool {
	if b.remaining <= 0 {
		return false
	}
	if !b.deadline.IsZero() && time.Now().After(b.deadline) {
		return false
	}
	b.remaining--
	b.metrics.AddIteration()
	return true
}

func randomAction(rng *rand.Rand, actions []game.Action) game.Action {
	return actions[rng.Intn(len(actions))]
}
