package searcher

import (
	"testing"

	"pursuit/experiments/metrics"
	"pursuit/game"

	"github.com/stretchr/testify/require"
)

func TestHillClimber(t *testing.T) {
	t.Run("returning the first action of the best valid sequence", func(t *testing.T) {
		var observed []candidate
		hc := NewHillClimber(WithSeed(3), WithIterations(100))
		hc.observe = func(c candidate) { observed = append(observed, c) }

		action := hc.ChooseAction(tinyState(t))

		require.Len(t, observed, 100)
		best := observed[0]
		for _, c := range observed[1:] {
			if c.fitness > best.fitness {
				best = c
			}
		}
		require.Equal(t, best.actions[0], action)
		for _, c := range observed {
			require.GreaterOrEqual(t, best.fitness, c.fitness)
		}
	})

	t.Run("stopping at the first invalid sequence", func(t *testing.T) {
		g := newMockGraph()
		g.legal[0] = []game.Action{game.North}
		g.limit = 12 // Two full sequences, then a failure
		collector := metrics.NewCollector()
		count := 0
		hc := NewHillClimber(WithSeed(1), WithMetrics(collector))
		hc.observe = func(candidate) { count++ }

		hc.ChooseAction(g.state(0))

		require.Equal(t, 2, count)
		require.Equal(t, 1, collector.Complete().Failures)
		require.Equal(t, 3, collector.Complete().Iterations)
	})

	t.Run("returning stop when nothing valid was found", func(t *testing.T) {
		g := newMockGraph()
		g.fails[0] = true

		require.Equal(t, game.Stop, NewHillClimber(WithSeed(1)).ChooseAction(g.state(0)))
	})

	t.Run("resetting the sequence on a new episode", func(t *testing.T) {
		hc := NewHillClimber(WithSeed(1), WithIterations(5))
		hc.ChooseAction(tinyState(t))
		hc.OnEpisodeStart(tinyState(t))

		require.Equal(t, stopSequence(), hc.current)
	})
}

func TestSequence(t *testing.T) {
	t.Run("simulating stops early on a loss", func(t *testing.T) {
		g := alwaysLoseGraph()
		cfg := newConfig(nil)

		fitness, won, err := cfg.simulate(g.state(0), sequence{game.East, game.East, game.East, game.East, game.East})

		require.NoError(t, err)
		require.False(t, won)
		require.Equal(t, -500.0, fitness)
		require.Equal(t, 1, g.calls, "Should not ask for successors of a terminal state")
	})

	t.Run("simulating reports simulator failures", func(t *testing.T) {
		g := newMockGraph()
		g.fails[0] = true
		cfg := newConfig(nil)

		_, _, err := cfg.simulate(g.state(0), stopSequence())

		require.ErrorIs(t, err, game.ErrSimulatorFailure)
	})

	t.Run("perturbing never touches the original", func(t *testing.T) {
		cfg := newConfig([]Option{WithSeed(9)})
		original := stopSequence()
		perturbed := original.perturb(cfg.rng, game.Actions, 1.0)

		require.Equal(t, stopSequence(), original)
		require.Len(t, perturbed, SequenceLength)
	})
}
