package searcher

import "pursuit/game"

// RandomSequenceLength is the plan length of the RandomSequence baseline.
const RandomSequenceLength = 10

// Random plays a uniformly random legal action.
type Random struct {
	cfg config
}

func NewRandom(options ...Option) *Random {
	return &Random{cfg: newConfig(options)}
}

func (r *Random) OnEpisodeStart(game.State) {}

func (r *Random) ChooseAction(state game.State) game.Action {
	r.cfg.metrics.Start("random")
	legal := state.LegalActions()
	if len(legal) == 0 {
		return Fallback
	}
	return randomAction(r.cfg.rng, legal)
}

// Greedy plays the action whose immediate successor scores best, breaking ties at random.
type Greedy struct {
	cfg config
}

func NewGreedy(options ...Option) *Greedy {
	return &Greedy{cfg: newConfig(options)}
}

func (g *Greedy) OnEpisodeStart(game.State) {}

func (g *Greedy) ChooseAction(state game.State) game.Action {
	g.cfg.metrics.Start("greedy")
	var best []game.Action
	var bestScore float64
	for _, action := range state.LegalActions() {
		next, err := state.Successor(action)
		if err != nil {
			g.cfg.metrics.AddFailure()
			continue
		}
		score := g.cfg.evaluate(next)
		switch {
		case len(best) == 0 || score > bestScore:
			best, bestScore = []game.Action{action}, score
		case score == bestScore:
			best = append(best, action)
		}
	}
	if len(best) == 0 {
		return Fallback
	}
	return randomAction(g.cfg.rng, best)
}

// RandomSequence draws a random plan over the full action space every tick, plays
// it out while the game lasts, and commits to its first action.
type RandomSequence struct {
	cfg  config
	plan [RandomSequenceLength]game.Action
}

func NewRandomSequence(options ...Option) *RandomSequence {
	s := &RandomSequence{cfg: newConfig(options)}
	s.OnEpisodeStart(nil)
	return s
}

func (s *RandomSequence) OnEpisodeStart(game.State) {
	for i := range s.plan {
		s.plan[i] = game.Stop
	}
}

func (s *RandomSequence) ChooseAction(state game.State) game.Action {
	s.cfg.metrics.Start("sequence")
	actions := state.AllActions()
	if len(actions) == 0 {
		return Fallback
	}
	for i := range s.plan {
		s.plan[i] = randomAction(s.cfg.rng, actions)
	}

	current := state
	for _, action := range s.plan {
		if game.IsTerminal(current) {
			break
		}
		next, err := current.Successor(action)
		if err != nil {
			s.cfg.metrics.AddFailure()
			break
		}
		current = next
	}
	return s.plan[0]
}
