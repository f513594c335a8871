package agent

import (
	"fmt"
	"slices"
	"strings"

	"pursuit/experiments/metrics"
	"pursuit/searcher"
)

type constructor func(options ...searcher.Option) searcher.Strategy

var registry = map[string]constructor{
	"random":    func(o ...searcher.Option) searcher.Strategy { return searcher.NewRandom(o...) },
	"greedy":    func(o ...searcher.Option) searcher.Strategy { return searcher.NewGreedy(o...) },
	"sequence":  func(o ...searcher.Option) searcher.Strategy { return searcher.NewRandomSequence(o...) },
	"bfs":       func(o ...searcher.Option) searcher.Strategy { return searcher.NewBFS(o...) },
	"dfs":       func(o ...searcher.Option) searcher.Strategy { return searcher.NewDFS(o...) },
	"astar":     func(o ...searcher.Option) searcher.Strategy { return searcher.NewAStar(o...) },
	"hillclimb": func(o ...searcher.Option) searcher.Strategy { return searcher.NewHillClimber(o...) },
	"genetic":   func(o ...searcher.Option) searcher.Strategy { return searcher.NewGenetic(o...) },
	"mcts":      func(o ...searcher.Option) searcher.Strategy { return searcher.NewMCTS(o...) },
}

// Names lists the registered agents in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Lookup builds the named agent. The collector, if any, is wired into the strategy
// so that FindMove reports its metrics.
func Lookup(name string, collector metrics.Collector, options ...searcher.Option) (Agent, error) {
	build, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown agent %q, expected one of %s", name, strings.Join(Names(), ", "))
	}
	if collector == nil {
		collector = metrics.NewDummyCollector()
	}
	options = append(options, searcher.WithMetrics(collector))
	return New(strings.ToLower(name), build(options...), collector), nil
}
