package engine

import "pursuit/experiments/metrics"

const MaxTurns = 500

// Result is the outcome of an episode from the agent's point of view.
type Result int

const (
	Undecided Result = iota // Turn limit reached
	Won
	Lost
)

func (r Result) String() string {
	switch r {
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "undecided"
	}
}

type Engine interface {
	// Run plays an episode till the game is won or lost or the turn limit is reached
	Run() (result Result, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric)
}
