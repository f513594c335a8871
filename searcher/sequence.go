package searcher

import (
	"pursuit/game"

	"golang.org/x/exp/rand"
)

// sequence is a fixed-length plan of actions, copied by value.
type sequence [SequenceLength]game.Action

func stopSequence() sequence {
	var s sequence
	for i := range s {
		s[i] = game.Stop
	}
	return s
}

func randomSequence(rng *rand.Rand, actions []game.Action) sequence {
	var s sequence
	for i := range s {
		s[i] = randomAction(rng, actions)
	}
	return s
}

// perturb returns a copy with every gene independently redrawn with probability p.
func (s sequence) perturb(rng *rand.Rand, actions []game.Action, p float64) sequence {
	for i := range s {
		if rng.Float64() < p {
			s[i] = randomAction(rng, actions)
		}
	}
	return s
}

// simulate plays seq from state, stopping early on a win or a loss, and scores the
// state it ends in. A failed successor invalidates the whole sequence.
func (c *config) simulate(state game.State, seq sequence) (fitness float64, won bool, err error) {
	for _, action := range seq {
		if game.IsTerminal(state) {
			break
		}
		next, err := state.Successor(action)
		if err != nil {
			return 0, false, err
		}
		state = next
	}
	return c.evaluate(state), state.IsWin(), nil
}
