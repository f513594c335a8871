package main

import (
	"fmt"
	"strings"
	"time"

	"pursuit/engine"
	"pursuit/experiments"
	"pursuit/experiments/metrics"
	"pursuit/game"
	"pursuit/searcher"
	"pursuit/searcher/agent"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type playFlags struct {
	agent        string
	layout       string
	seed         int64
	iterations   int
	duration     time.Duration
	exploration  float64
	rolloutDepth int
	evaluation   string
	maxTurns     int
	tickBudget   int
	render       bool
}

type experimentFlags struct {
	output  string
	parquet bool
}

func newRootCmd() *cobra.Command {
	var logLevel string
	var pretty bool

	rootCmd := &cobra.Command{
		Use:           "pursuit",
		Short:         "Search and optimization agents for a grid pursuit game",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := zerolog.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("invalid log level %q: %w", logLevel, err)
			}
			zerolog.SetGlobalLevel(level)
			if pretty {
				log.Logger = log.Output(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.Kitchen})
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", true, "Human readable console logs instead of JSON")

	rootCmd.AddCommand(newPlayCmd(), newExperimentCmd(), newAgentsCmd())
	return rootCmd
}

func newPlayCmd() *cobra.Command {
	f := playFlags{}
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play one game with an agent and print the outcome",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, f)
		},
	}
	cmd.Flags().StringVarP(&f.agent, "agent", "a", "mcts", "Agent to play with, see 'pursuit agents'")
	cmd.Flags().StringVarP(&f.layout, "layout", "l", "small", "Builtin layout name or layout file")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "Random seed, 0 picks one from the clock")
	cmd.Flags().IntVar(&f.iterations, "iterations", searcher.DefaultIterations, "Iteration budget per decision")
	cmd.Flags().DurationVar(&f.duration, "duration", 0, "Wall-clock budget per decision")
	cmd.Flags().Float64Var(&f.exploration, "exploration", 1.0, "UCB1 exploration constant")
	cmd.Flags().IntVar(&f.rolloutDepth, "rollout-depth", searcher.SequenceLength, "MCTS rollout depth")
	cmd.Flags().StringVar(&f.evaluation, "evaluation", "score", "State evaluation (score, distance)")
	cmd.Flags().IntVar(&f.maxTurns, "max-turns", engine.MaxTurns, "Turns before the game is called undecided")
	cmd.Flags().IntVar(&f.tickBudget, "tick-budget", engine.DefaultTickBudget, "Successors an agent may generate per decision, 0 for unlimited")
	cmd.Flags().BoolVar(&f.render, "render", false, "Print the board after every turn")
	return cmd
}

func runPlay(cmd *cobra.Command, f playFlags) error {
	layout, err := game.FindLayout(f.layout)
	if err != nil {
		return err
	}
	evaluate, ok := game.LookupEvaluation(f.evaluation)
	if !ok {
		return fmt.Errorf("unknown evaluation %q", f.evaluation)
	}
	seed := f.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	a, err := agent.Lookup(f.agent, metrics.NewCollector(),
		searcher.WithSeed(uint64(seed)),
		searcher.WithIterations(f.iterations),
		searcher.WithDuration(f.duration),
		searcher.WithExploration(f.exploration),
		searcher.WithRolloutDepth(f.rolloutDepth),
		searcher.WithEvaluationFn(evaluate),
	)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	options := []engine.Option{
		engine.WithMaxTurns(f.maxTurns),
		engine.WithTickBudget(f.tickBudget),
		engine.WithSeed(seed),
	}
	if f.render {
		options = append(options, engine.WithObserver(func(turn int, state *game.GameState) {
			fmt.Fprintf(out, "%s\n\n", state)
		}))
	}

	result, gameMetric, _ := engine.NewLocalEngine(a, layout, options...).Run()
	fmt.Fprintf(out, "%s %s on %s: score %d after %d moves in %s (seed %d)\n",
		gameMetric.Agent, result, gameMetric.Layout, gameMetric.Score, gameMetric.TotalMoves,
		gameMetric.Duration.Round(time.Millisecond), seed)
	return nil
}

func newExperimentCmd() *cobra.Command {
	f := experimentFlags{}
	cmd := &cobra.Command{
		Use:   "experiment [config.yaml]",
		Short: "Run the games described by an experiment file and store the records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExperiment(cmd, args[0], f)
		},
	}
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Directory for the records, overrides output_dir")
	cmd.Flags().BoolVar(&f.parquet, "parquet", false, "Also write move records as parquet")
	return cmd
}

func runExperiment(cmd *cobra.Command, path string, f experimentFlags) error {
	cfg, err := experiments.LoadConfig(path)
	if err != nil {
		return err
	}
	if f.output != "" {
		cfg.OutputDir = f.output
	}
	if f.parquet {
		cfg.Parquet = true
	}

	dir, summary, err := experiments.NewRunner(cfg).Run(cmd.Context())
	if err != nil {
		return err
	}
	if err := summary.Print(cmd.OutOrStdout()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nrecords stored in %s\n", dir)
	return nil
}

func newAgentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "agents",
		Short: "List the available agents and builtin layouts",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "agents:  %s\n", strings.Join(agent.Names(), ", "))
			fmt.Fprintf(out, "layouts: %s\n", strings.Join(game.LayoutNames(), ", "))
		},
	}
}
