package searcher

import (
	"pursuit/game"
	"pursuit/utils"

	"github.com/rs/zerolog/log"
)

// frontier orders the nodes of a tree search awaiting expansion.
type frontier interface {
	add(index int, cost float64)
	next() int
	empty() bool
}

// costFn prices a node for frontiers that order by cost; nil for the others.
type costFn func(depth int, state game.State) float64

// treeSearch expands every reachable node in frontier order and returns the first
// action on the path to the best leaf. A node is a leaf when it is a win or a
// loss, has no legal actions, or one of its successors cannot be generated.
func (c *config) treeSearch(name string, root game.State, f frontier, price costFn) game.Action {
	c.metrics.Start(name)
	if price == nil {
		price = func(int, game.State) float64 { return 0 }
	}

	t := newTree(root)
	for _, action := range root.LegalActions() {
		next, err := root.Successor(action)
		if err != nil {
			c.metrics.AddFailure()
			continue
		}
		i := t.add(0, next, action)
		t.nodes[i].cost = price(t.nodes[i].depth, next)
		f.add(i, t.nodes[i].cost)
	}

	leaves := []int{}
	b := c.newBudget()
	for !f.empty() {
		if !b.next() {
			// Out of budget: whatever is left unexpanded becomes a leaf
			for !f.empty() {
				leaves = append(leaves, f.next())
			}
			break
		}

		i := f.next()
		children, ok := c.successors(t.nodes[i].state)
		if !ok {
			leaves = append(leaves, i)
			continue
		}
		c.metrics.AddExpansion()
		for _, child := range children {
			j := t.add(i, child, t.nodes[i].action)
			t.nodes[j].cost = price(t.nodes[j].depth, child)
			f.add(j, t.nodes[j].cost)
		}
	}

	log.Debug().Msgf("%s collected %d leaves from %d nodes", name, len(leaves), len(t.nodes))
	return c.bestLeaf(t, leaves)
}

// successors generates every legal successor of state, reporting false when state is a leaf.
func (c *config) successors(state game.State) ([]game.State, bool) {
	if game.IsTerminal(state) {
		return nil, false
	}
	legal := state.LegalActions()
	if len(legal) == 0 {
		return nil, false
	}

	children := make([]game.State, 0, len(legal))
	for _, action := range legal {
		child, err := state.Successor(action)
		if err != nil {
			c.metrics.AddFailure()
			return nil, false
		}
		children = append(children, child)
	}
	return children, true
}

// bestLeaf returns the action of the highest scoring leaf, the first one on ties.
func (c *config) bestLeaf(t *tree, leaves []int) game.Action {
	best := utils.ArgMax(leaves, func(i int) float64 {
		return c.evaluate(t.nodes[i].state)
	})
	if best < 0 {
		return Fallback
	}
	return t.nodes[leaves[best]].action
}
