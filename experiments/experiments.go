package experiments

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"pursuit/engine"
	"pursuit/experiments/metrics"
	"pursuit/game"
	"pursuit/searcher"
	"pursuit/searcher/agent"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Option func(r *Runner)

// WithRegistry exports metrics to registry instead of a fresh one.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(r *Runner) {
		if registry != nil {
			r.registry = registry
		}
	}
}

// Runner plays every agent of a Config on every layout and stores the results.
type Runner struct {
	cfg      *Config
	registry *prometheus.Registry
	exporter *metrics.Exporter
}

func NewRunner(cfg *Config, options ...Option) *Runner {
	r := &Runner{cfg: cfg, registry: prometheus.NewRegistry()}
	for _, option := range options {
		option(r)
	}
	r.exporter = metrics.NewExporter(r.registry)
	return r
}

// Run executes the experiment and returns the directory holding its records. It
// stops between games once ctx is done.
func (r *Runner) Run(ctx context.Context) (string, Summary, error) {
	layouts := make([]*game.Layout, 0, len(r.cfg.Layouts))
	for _, name := range r.cfg.Layouts {
		l, err := game.FindLayout(name)
		if err != nil {
			return "", nil, err
		}
		layouts = append(layouts, l)
	}

	if r.cfg.MetricsAddr != "" {
		stop := r.serveMetrics()
		defer stop()
	}

	count := 0
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}
	total := len(r.cfg.Agents) * len(layouts) * r.cfg.Games

	log.Info().Msgf("starting %s experiment with %d games...", r.cfg.Name, total)

	for _, config := range r.cfg.Agents {
		for _, layout := range layouts {
			log.Info().Msgf("starting agent %d (%s) on %s...", config.ID, config.Name, layout.Name)

			for i := 0; i < r.cfg.Games; i++ {
				if err := ctx.Err(); err != nil {
					return "", nil, fmt.Errorf("experiment interrupted after %d of %d games: %w", count, total, err)
				}

				seed := r.cfg.Seed + int64(count)
				gameMetric, moveMetrics, err := r.runGame(config, layout, seed)
				if err != nil {
					return "", nil, err
				}
				count++
				r.exporter.ObserveGame(gameMetric)
				gameRecords = append(gameRecords, metrics.GameRecord{
					ID:         count,
					AgentID:    config.ID,
					GameMetric: gameMetric,
				})
				for _, mm := range moveMetrics {
					moveRecords = append(moveRecords, metrics.MoveRecord{
						Game:       count,
						MoveMetric: mm,
					})
				}

				log.Info().Msgf("completed game %d of %d with score %d", count, total, gameMetric.Score)
			}
		}
	}

	log.Info().Msgf("completed %s experiment", r.cfg.Name)

	dir, err := r.store(gameRecords, moveRecords)
	if err != nil {
		return "", nil, err
	}
	return dir, Summarize(gameRecords, moveRecords), nil
}

// runGame plays a single game with a freshly built agent.
func (r *Runner) runGame(config metrics.AgentConfig, layout *game.Layout, seed int64) (metrics.GameMetric, []metrics.MoveMetric, error) {
	collector := r.exporter.Wrap(metrics.NewCollector())
	a, err := agent.Lookup(config.Name, collector, strategyOptions(config, seed)...)
	if err != nil {
		return metrics.GameMetric{}, nil, err
	}

	e := engine.NewLocalEngine(a, layout,
		engine.WithMaxTurns(r.cfg.MaxTurns),
		engine.WithTickBudget(r.cfg.TickBudget),
		engine.WithSeed(seed),
	)
	_, gameMetric, moveMetrics := e.Run()
	return gameMetric, moveMetrics, nil
}

func strategyOptions(config metrics.AgentConfig, seed int64) []searcher.Option {
	options := []searcher.Option{searcher.WithSeed(uint64(seed))}

	if config.Iterations > 0 {
		options = append(options, searcher.WithIterations(config.Iterations))
	}
	if config.Duration > 0 {
		options = append(options, searcher.WithDuration(config.Duration))
	}
	if config.Exploration > 0 {
		options = append(options, searcher.WithExploration(config.Exploration))
	}
	if config.RolloutDepth > 0 {
		options = append(options, searcher.WithRolloutDepth(config.RolloutDepth))
	}
	if evaluate, ok := game.LookupEvaluation(config.Evaluation); ok {
		options = append(options, searcher.WithEvaluationFn(evaluate))
	}
	return options
}

func (r *Runner) store(games []metrics.GameRecord, moves []metrics.MoveRecord) (string, error) {
	writer, err := metrics.NewWriter(r.cfg.OutputDir, r.cfg.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}

	err = writer.WriteAgentConfigs(r.cfg.Agents)
	if err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	err = writer.WriteGameRecords(games)
	if err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	err = writer.WriteMoveRecords(moves)
	if err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msg("stored move records")

	if r.cfg.Parquet {
		err = writer.WriteMoveParquet(moves)
		if err != nil {
			return "", err
		}
		log.Info().Msg("stored move records as parquet")
	}
	return writer.Dir(), nil
}

// serveMetrics exposes the registry on /metrics until the returned func is called.
func (r *Runner) serveMetrics() func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: r.cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Info().Msgf("serving metrics on %s/metrics", r.cfg.MetricsAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server stopped")
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}
}
