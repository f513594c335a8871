package experiments

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pursuit/engine"
	"pursuit/experiments/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
name: baseline
games: 2
seed: 7
max_turns: 20
tick_budget: 400
layouts: [tiny]
agents:
  - id: 1
    name: greedy
  - id: 2
    name: mcts
    iterations: 30
    duration: 50ms
    exploration: 0.5
    rollout_depth: 3
    evaluation: distance
`

func TestParseConfig(t *testing.T) {
	t.Run("reading agents and layouts", func(t *testing.T) {
		cfg, err := ParseConfig([]byte(sampleConfig))
		require.NoError(t, err)

		require.Equal(t, "baseline", cfg.Name)
		require.Equal(t, 2, cfg.Games)
		require.Equal(t, []string{"tiny"}, cfg.Layouts)
		require.Len(t, cfg.Agents, 2)
		require.Equal(t, 50*time.Millisecond, cfg.Agents[1].Duration)
		require.Equal(t, 0.5, cfg.Agents[1].Exploration)
	})

	t.Run("filling in defaults", func(t *testing.T) {
		cfg, err := ParseConfig([]byte("name: x\ngames: 1\nlayouts: [tiny]\nagents: [{id: 1, name: random}]\n"))
		require.NoError(t, err)

		require.Equal(t, DefaultOutputDir, cfg.OutputDir)
		require.Equal(t, engine.MaxTurns, cfg.MaxTurns)
		require.Equal(t, engine.DefaultTickBudget, cfg.TickBudget)
	})

	t.Run("rejecting invalid configs", func(t *testing.T) {
		cases := map[string]string{
			"missing name":     "games: 1\nlayouts: [tiny]\nagents: [{id: 1, name: bfs}]\n",
			"no games":         "name: x\ngames: 0\nlayouts: [tiny]\nagents: [{id: 1, name: bfs}]\n",
			"no agents":        "name: x\ngames: 1\nlayouts: [tiny]\n",
			"duplicate ids":    "name: x\ngames: 1\nlayouts: [tiny]\nagents: [{id: 1, name: bfs}, {id: 1, name: dfs}]\n",
			"unknown agent":    "name: x\ngames: 1\nlayouts: [tiny]\nagents: [{id: 1, name: minimax}]\n",
			"unknown layout":   "name: x\ngames: 1\nlayouts: [huge]\nagents: [{id: 1, name: bfs}]\n",
			"unknown field":    "name: x\ngames: 1\nlayouts: [tiny]\nagents: [{id: 1, name: bfs}]\nthreads: 4\n",
			"negative budget":  "name: x\ngames: 1\nlayouts: [tiny]\nagents: [{id: 1, name: bfs, iterations: -1}]\n",
			"bad evaluation":   "name: x\ngames: 1\nlayouts: [tiny]\nagents: [{id: 1, name: bfs, evaluation: fancy}]\n",
			"bad metrics addr": "name: x\ngames: 1\nlayouts: [tiny]\nagents: [{id: 1, name: bfs}]\nmetrics_addr: nowhere\n",
		}
		for name, text := range cases {
			_, err := ParseConfig([]byte(text))
			require.Error(t, err, name)
		}
	})

	t.Run("loading from a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "experiment.yaml")
		require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		require.Equal(t, "baseline", cfg.Name)

		_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
	})
}

func TestRunner(t *testing.T) {
	t.Run("storing records for every game", func(t *testing.T) {
		cfg, err := ParseConfig([]byte(sampleConfig))
		require.NoError(t, err)
		cfg.OutputDir = t.TempDir()
		cfg.Parquet = true
		registry := prometheus.NewRegistry()

		dir, summary, err := NewRunner(cfg, WithRegistry(registry)).Run(context.Background())
		require.NoError(t, err)

		for _, name := range []string{"agent_configs.csv", "game_records.csv", "move_records.csv", "move_records.parquet"} {
			require.FileExists(t, filepath.Join(dir, name))
		}
		require.Len(t, summary, 2)
		for _, s := range summary {
			require.Equal(t, 2, s.Games)
			require.Equal(t, "tiny", s.Layout)
		}
		series, err := testutil.GatherAndCount(registry, "pursuit_games_total")
		require.NoError(t, err)
		require.Positive(t, series)
	})

	t.Run("stopping once the context is cancelled", func(t *testing.T) {
		cfg, err := ParseConfig([]byte(sampleConfig))
		require.NoError(t, err)
		cfg.OutputDir = t.TempDir()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, _, err = NewRunner(cfg).Run(ctx)

		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestSummarize(t *testing.T) {
	games := []metrics.GameRecord{
		{ID: 1, AgentID: 1, GameMetric: metrics.GameMetric{Agent: "bfs", Layout: "tiny", Won: true, Score: 500}},
		{ID: 2, AgentID: 1, GameMetric: metrics.GameMetric{Agent: "bfs", Layout: "tiny", Lost: true, Score: -400}},
		{ID: 3, AgentID: 2, GameMetric: metrics.GameMetric{Agent: "mcts", Layout: "tiny", Score: 10}},
	}
	moves := []metrics.MoveRecord{
		{Game: 1, MoveMetric: metrics.MoveMetric{SearchMetric: metrics.SearchMetric{Duration: 2 * time.Millisecond, Iterations: 10, Failures: 1}}},
		{Game: 2, MoveMetric: metrics.MoveMetric{SearchMetric: metrics.SearchMetric{Duration: 4 * time.Millisecond, Iterations: 20}}},
	}

	t.Run("aggregating games per agent and layout", func(t *testing.T) {
		summary := Summarize(games, moves)

		require.Len(t, summary, 2)
		bfs := summary[0]
		require.Equal(t, 2, bfs.Games)
		require.Equal(t, 1, bfs.Wins)
		require.Equal(t, 1, bfs.Losses)
		require.Equal(t, 50.0, bfs.MeanScore)
		require.Equal(t, 3*time.Millisecond, bfs.MeanDecision)
		require.Equal(t, 15.0, bfs.MeanIterations)
		require.Equal(t, 1, bfs.Failures)
		require.Zero(t, summary[1].Moves)
	})

	t.Run("printing a table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Summarize(games, moves).Print(&buf))

		require.Contains(t, buf.String(), "MEAN SCORE")
		require.Contains(t, buf.String(), "mcts")
	})
}
