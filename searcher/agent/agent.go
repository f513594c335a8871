package agent

import (
	"pursuit/experiments/metrics"
	"pursuit/game"
	"pursuit/searcher"
)

type Agent interface {
	Name() string
	// OnEpisodeStart is called with the initial state of every episode.
	OnEpisodeStart(state game.State)
	// FindMove returns an action and the effort the strategy spent finding it.
	FindMove(state game.State) (game.Action, metrics.SearchMetric)
}

type searchAgent struct {
	name      string
	strategy  searcher.Strategy
	collector metrics.Collector
}

// New wraps a strategy so that every move is measured by collector. The collector
// must also be passed to the strategy with searcher.WithMetrics.
func New(name string, strategy searcher.Strategy, collector metrics.Collector) Agent {
	if collector == nil {
		collector = metrics.NewDummyCollector()
	}
	return searchAgent{name: name, strategy: strategy, collector: collector}
}

func (a searchAgent) Name() string {
	return a.name
}

func (a searchAgent) OnEpisodeStart(state game.State) {
	a.strategy.OnEpisodeStart(state)
}

func (a searchAgent) FindMove(state game.State) (game.Action, metrics.SearchMetric) {
	action := a.strategy.ChooseAction(state)
	return action, a.collector.Complete()
}
