package engine

import (
	"slices"
	"time"

	"pursuit/experiments/metrics"
	"pursuit/game"
	"pursuit/searcher/agent"

	"github.com/rs/zerolog/log"
)

// DefaultTickBudget is the number of successors an agent may generate per decision.
const DefaultTickBudget = 5000

type Option func(e *LocalEngine)

func WithMaxTurns(turns int) Option {
	return func(e *LocalEngine) {
		if turns > 0 {
			e.maxTurns = turns
		}
	}
}

// WithTickBudget sets the successor budget per decision; zero or less removes it.
func WithTickBudget(budget int) Option {
	return func(e *LocalEngine) {
		e.tickBudget = budget
	}
}

// WithSeed records the seed the agent was built with in the game metric.
func WithSeed(seed int64) Option {
	return func(e *LocalEngine) {
		e.seed = seed
	}
}

// WithObserver is called with the state after every turn.
func WithObserver(observe func(turn int, state *game.GameState)) Option {
	return func(e *LocalEngine) {
		e.observe = observe
	}
}

var _ Engine = (*LocalEngine)(nil)

// LocalEngine runs an agent against the bundled simulator in-process.
type LocalEngine struct {
	agent      agent.Agent
	layout     *game.Layout
	maxTurns   int
	tickBudget int
	seed       int64
	observe    func(turn int, state *game.GameState)
	State      *game.GameState
}

func NewLocalEngine(a agent.Agent, l *game.Layout, options ...Option) *LocalEngine {
	if a == nil || l == nil {
		panic("engine needs an agent and a layout")
	}
	e := &LocalEngine{
		agent:      a,
		layout:     l,
		maxTurns:   MaxTurns,
		tickBudget: DefaultTickBudget,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Run executes the game loop until the episode ends.
func (e *LocalEngine) Run() (Result, metrics.GameMetric, []metrics.MoveMetric) {
	e.State = game.NewGameState(e.layout)
	gameMetric := metrics.GameMetric{
		Agent:     e.agent.Name(),
		Layout:    e.layout.Name,
		Seed:      e.seed,
		StartTime: time.Now(),
	}
	log.Info().Msgf("%s is starting on %s", e.agent.Name(), e.layout.Name)

	e.agent.OnEpisodeStart(e.State)
	var moveMetrics []metrics.MoveMetric
	turn := 1
	for ; !game.IsTerminal(e.State) && turn <= e.maxTurns; turn++ {
		action, searchMetric := e.agent.FindMove(e.State.WithBudget(e.tickBudget))
		if !slices.Contains(e.State.LegalActions(), action) {
			log.Warn().Msgf("%s chose illegal action %s on turn %d, forcing %s", e.agent.Name(), action, turn, game.Stop)
			action = game.Stop
		}

		e.State = e.State.Play(action)
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         turn,
			Action:       action.String(),
			Score:        e.State.Score,
			SearchMetric: searchMetric,
		})
		if e.observe != nil {
			e.observe(turn, e.State)
		}
	}

	result := Undecided
	switch {
	case e.State.IsWin():
		result = Won
	case e.State.IsLose():
		result = Lost
	default:
		log.Info().Msgf("stopped after %d turns without a result", e.maxTurns)
	}

	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.Won = result == Won
	gameMetric.Lost = result == Lost
	gameMetric.Score = e.State.Score
	gameMetric.TotalMoves = len(moveMetrics)
	log.Info().Msgf("%s %s on %s with score %d after %d moves", e.agent.Name(), result, e.layout.Name, e.State.Score, len(moveMetrics))

	return result, gameMetric, moveMetrics
}
