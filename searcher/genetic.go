package searcher

import (
	"cmp"
	"slices"

	"pursuit/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

const (
	crossoverRate = 0.7
	mutationRate  = 0.1
)

type individual struct {
	actions sequence
	fitness float64
	rank    int // 1 is the worst, PopulationSize the best
}

// generation is never modified once ranked; reproduction builds a new one.
type generation [PopulationSize]individual

// Genetic evolves a population of action sequences with rank-proportional
// selection, uniform crossover and single-gene mutation.
type Genetic struct {
	cfg        config
	population generation // Last ranked generation
	observe    func(generation)
}

func NewGenetic(options ...Option) *Genetic {
	g := &Genetic{cfg: newConfig(options)}
	g.OnEpisodeStart(nil)
	return g
}

func (s *Genetic) OnEpisodeStart(game.State) {
	for i := range s.population {
		s.population[i] = individual{actions: stopSequence(), rank: i + 1}
	}
}

func (s *Genetic) ChooseAction(state game.State) game.Action {
	s.cfg.metrics.Start("genetic")
	actions := state.AllActions()
	if len(actions) == 0 {
		return Fallback
	}

	var initial generation
	for i := range initial {
		initial[i] = individual{actions: randomSequence(s.cfg.rng, actions)}
	}
	if winner, won, err := s.evaluate(state, &initial); err != nil {
		s.cfg.metrics.AddFailure()
		log.Debug().Msgf("genetic could not evaluate the initial population: %v", err)
		return Fallback
	} else if won {
		return winner
	}
	s.population = rank(initial)

	b := s.cfg.newBudget()
	for b.next() {
		if s.observe != nil {
			s.observe(s.population)
		}
		children := s.reproduce(&s.population, actions)
		winner, won, err := s.evaluate(state, &children)
		if err != nil {
			s.cfg.metrics.AddFailure()
			log.Debug().Msgf("genetic stopped: %v", err)
			break
		}
		if won {
			return winner
		}
		s.population = rank(children)
		s.cfg.metrics.AddExpansion()
	}

	return s.population[PopulationSize-1].actions[0]
}

// evaluate scores every individual in place. It stops at the first individual that
// reaches a win and returns its first action.
func (s *Genetic) evaluate(state game.State, g *generation) (game.Action, bool, error) {
	for i := range g {
		fitness, won, err := s.cfg.simulate(state, g[i].actions)
		if err != nil {
			return Fallback, false, err
		}
		if won {
			return g[i].actions[0], true, nil
		}
		g[i].fitness = fitness
	}
	return Fallback, false, nil
}

// rank returns a copy sorted ascending by fitness with ranks 1..PopulationSize.
// Equal fitness keeps the original order.
func rank(g generation) generation {
	slices.SortStableFunc(g[:], func(a, b individual) int {
		return cmp.Compare(a.fitness, b.fitness)
	})
	for i := range g {
		g[i].rank = i + 1
	}
	return g
}

// selectParent draws an individual with probability proportional to its rank.
func (s *Genetic) selectParent(ranked *generation) individual {
	total := 0
	for _, ind := range ranked {
		total += ind.rank
	}
	if total <= 0 {
		return ranked[PopulationSize-1]
	}

	pick := s.cfg.rng.Float64() * float64(total)
	sum := 0.0
	for _, ind := range ranked {
		sum += float64(ind.rank)
		if sum > pick {
			return ind
		}
	}
	return ranked[PopulationSize-1]
}

// reproduce breeds the next generation: pairs of parents either cross over or are
// copied, then every child may mutate one gene.
func (s *Genetic) reproduce(ranked *generation, actions []game.Action) generation {
	var next generation
	for i := 0; i < PopulationSize; i += 2 {
		a, b := s.selectParent(ranked), s.selectParent(ranked)
		first, second := a.actions, b.actions
		if s.cfg.rng.Float64() < crossoverRate {
			first = crossover(s.cfg.rng, a.actions, b.actions)
			second = crossover(s.cfg.rng, a.actions, b.actions)
		}
		next[i] = individual{actions: first}
		next[i+1] = individual{actions: second}
	}
	for i := range next {
		if s.cfg.rng.Float64() < mutationRate {
			next[i].actions[s.cfg.rng.Intn(SequenceLength)] = randomAction(s.cfg.rng, actions)
		}
	}
	return next
}

// crossover takes every gene from either parent with equal probability.
func crossover(rng *rand.Rand, a, b sequence) sequence {
	var child sequence
	for i := range child {
		if rng.Intn(2) == 0 {
			child[i] = a[i]
		} else {
			child[i] = b[i]
		}
	}
	return child
}
