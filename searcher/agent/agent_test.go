package agent

import (
	"testing"

	"pursuit/experiments/metrics"
	"pursuit/game"
	"pursuit/searcher"

	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	t.Run("building every registered agent", func(t *testing.T) {
		l, err := game.BuiltinLayout("tiny")
		require.NoError(t, err)

		for _, name := range Names() {
			a, err := Lookup(name, nil, searcher.WithSeed(1), searcher.WithIterations(20))
			require.NoError(t, err, name)
			require.Equal(t, name, a.Name())

			gs := game.NewGameState(l)
			a.OnEpisodeStart(gs)
			action, _ := a.FindMove(gs)
			require.Contains(t, game.Actions, action, name)
		}
	})

	t.Run("rejecting unknown names", func(t *testing.T) {
		_, err := Lookup("minimax", nil)

		require.ErrorContains(t, err, "unknown agent")
	})

	t.Run("ignoring case", func(t *testing.T) {
		a, err := Lookup("MCTS", nil, searcher.WithIterations(5))

		require.NoError(t, err)
		require.Equal(t, "mcts", a.Name())
	})

	t.Run("reporting the strategy's search metrics", func(t *testing.T) {
		l, err := game.BuiltinLayout("tiny")
		require.NoError(t, err)
		a, err := Lookup("mcts", metrics.NewCollector(), searcher.WithSeed(1), searcher.WithIterations(25))
		require.NoError(t, err)

		_, metric := a.FindMove(game.NewGameState(l))

		require.Equal(t, "mcts", metric.Strategy)
		require.Equal(t, 25, metric.Iterations)
	})
}

func TestNames(t *testing.T) {
	t.Run("listing the agents in order", func(t *testing.T) {
		require.Equal(t, []string{
			"astar", "bfs", "dfs", "genetic", "greedy", "hillclimb", "mcts", "random", "sequence",
		}, Names())
	})
}
