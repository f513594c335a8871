package searcher

import (
	"pursuit/game"

	"github.com/rs/zerolog/log"
)

// MCTS grows an asymmetric tree from the current state with UCB1 selection,
// single-child expansion and short random rollouts, then plays the root child
// visited most often.
type MCTS struct {
	cfg config
}

func NewMCTS(options ...Option) *MCTS {
	return &MCTS{cfg: newConfig(options)}
}

func (m *MCTS) OnEpisodeStart(game.State) {}

func (m *MCTS) ChooseAction(state game.State) game.Action {
	m.cfg.metrics.Start("mcts")
	return bestAction(m.search(state))
}

// search runs episodes until the budget is spent or the simulator fails.
func (m *MCTS) search(state game.State) *mctsTree {
	t := newMCTSTree(state)
	b := m.cfg.newBudget()
	for b.next() {
		node, ok := m.selectThenExpand(t)
		if !ok {
			break
		}
		score, err := m.rollout(t.nodes[node].state)
		if err != nil {
			m.cfg.metrics.AddFailure()
			log.Debug().Msgf("mcts rollout failed: %v", err)
			t.backup(node, 0)
			break
		}
		t.backup(node, score)
	}
	log.Debug().Msgf("mcts built %d nodes from %d root visits", len(t.nodes), t.root().visits)
	return t
}

// selectThenExpand descends through fully expanded nodes and expands the first one
// that still has untried actions. It reports false when expansion fails.
func (m *MCTS) selectThenExpand(t *mctsTree) (int, bool) {
	i := 0
	for {
		node := &t.nodes[i]
		if game.IsTerminal(node.state) {
			return i, true
		}
		if !node.fullyExpanded {
			untried := t.untried(i)
			if len(untried) > 0 {
				return m.expand(t, i, untried)
			}
			node.fullyExpanded = true
		}
		if len(node.children) == 0 {
			return i, true
		}
		i = m.selectChild(t, i)
	}
}

func (m *MCTS) expand(t *mctsTree, parent int, untried []game.Action) (int, bool) {
	action := randomAction(m.cfg.rng, untried)
	state, err := t.nodes[parent].state.Successor(action)
	if err != nil {
		m.cfg.metrics.AddFailure()
		log.Debug().Msgf("mcts could not expand %s: %v", action, err)
		return parent, false
	}

	child := t.addChild(parent, action, state)
	if len(untried) == 1 {
		t.nodes[parent].fullyExpanded = true
	}
	m.cfg.metrics.AddExpansion()
	return child, true
}

// selectChild returns an unvisited child if there is one, otherwise the child with
// the highest UCB1 value.
func (m *MCTS) selectChild(t *mctsTree, i int) int {
	parent := &t.nodes[i]
	for _, c := range parent.children {
		if t.nodes[c].visits == 0 {
			return c
		}
	}

	policy := newUCB(m.cfg.exploration, parent.visits)
	best, bestValue := parent.children[0], 0.0
	for k, c := range parent.children {
		child := &t.nodes[c]
		value := policy.evaluate(m.cfg.compare(parent.state, child.state), child.visits)
		if k == 0 || value > bestValue {
			best, bestValue = c, value
		}
	}
	return best
}

// rollout plays random legal actions until the depth limit or the game ends.
func (m *MCTS) rollout(state game.State) (float64, error) {
	for depth := 0; depth < m.cfg.rolloutDepth && !game.IsTerminal(state); depth++ {
		legal := state.LegalActions()
		if len(legal) == 0 {
			break
		}
		next, err := state.Successor(randomAction(m.cfg.rng, legal))
		if err != nil {
			return 0, err
		}
		state = next
	}
	return m.cfg.evaluate(state), nil
}

// bestAction returns the action of the most visited root child, the first on ties.
func bestAction(t *mctsTree) game.Action {
	root := t.root()
	if len(root.children) == 0 {
		return Fallback
	}
	best := root.children[0]
	for _, c := range root.children[1:] {
		if t.nodes[c].visits > t.nodes[best].visits {
			best = c
		}
	}
	return t.nodes[best].action
}
