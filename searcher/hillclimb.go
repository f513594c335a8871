package searcher

import (
	"pursuit/game"

	"github.com/rs/zerolog/log"
)

const geneResampleRate = 0.5

type candidate struct {
	actions sequence
	fitness float64
}

// HillClimber perturbs a single random action sequence and keeps the best one it
// has seen until the simulator refuses to advance or the budget runs out.
type HillClimber struct {
	cfg     config
	current sequence
	observe func(candidate) // Called with every valid candidate, for tests
}

func NewHillClimber(options ...Option) *HillClimber {
	return &HillClimber{cfg: newConfig(options), current: stopSequence()}
}

func (s *HillClimber) OnEpisodeStart(game.State) {
	s.current = stopSequence()
}

func (s *HillClimber) ChooseAction(state game.State) game.Action {
	s.cfg.metrics.Start("hillclimb")
	actions := state.AllActions()
	if len(actions) == 0 {
		return Fallback
	}
	s.current = randomSequence(s.cfg.rng, actions)

	var best candidate
	found := false
	b := s.cfg.newBudget()
	for b.next() {
		s.current = s.current.perturb(s.cfg.rng, actions, geneResampleRate)
		fitness, _, err := s.cfg.simulate(state, s.current)
		if err != nil {
			s.cfg.metrics.AddFailure()
			log.Debug().Msgf("hillclimb stopped: %v", err)
			break
		}
		c := candidate{actions: s.current, fitness: fitness}
		if s.observe != nil {
			s.observe(c)
		}
		if !found || c.fitness > best.fitness {
			best = c
			found = true
		}
	}

	if !found {
		return Fallback
	}
	return best.actions[0]
}
