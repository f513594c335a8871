package searcher

import (
	"pursuit/game"
	"pursuit/utils"
)

// noParent marks the root of an arena.
const noParent = -1

// searchNode is a node of the uninformed and informed search trees. Nodes refer
// to their parent by index into the owning tree.
type searchNode struct {
	state  game.State
	action game.Action // First action on the path from the root
	parent int
	depth  int
	cost   float64 // Frontier priority, zero for uninformed search
}

type tree struct {
	nodes []searchNode
}

func newTree(root game.State) *tree {
	return &tree{nodes: []searchNode{{state: root, action: Fallback, parent: noParent}}}
}

// add appends a child of parent and returns its index.
func (t *tree) add(parent int, state game.State, action game.Action) int {
	if parent < 0 || parent >= len(t.nodes) {
		panic("parent is not in the tree")
	}
	t.nodes = append(t.nodes, searchNode{
		state:  state,
		action: action,
		parent: parent,
		depth:  t.nodes[parent].depth + 1,
	})
	return len(t.nodes) - 1
}

// mctsNode is a node of the Monte Carlo search tree.
type mctsNode struct {
	parent        int
	action        game.Action
	state         game.State
	visits        int
	score         float64 // Sum of backed up values
	tried         []game.Action
	children      []int
	fullyExpanded bool
}

type mctsTree struct {
	nodes []mctsNode
}

func newMCTSTree(root game.State) *mctsTree {
	return &mctsTree{nodes: []mctsNode{{parent: noParent, action: Fallback, state: root}}}
}

func (t *mctsTree) root() *mctsNode {
	return &t.nodes[0]
}

// addChild appends a fresh child reached from parent by action and returns its index.
func (t *mctsTree) addChild(parent int, action game.Action, state game.State) int {
	if parent < 0 || parent >= len(t.nodes) {
		panic("parent is not in the tree")
	}
	child := len(t.nodes)
	t.nodes = append(t.nodes, mctsNode{parent: parent, action: action, state: state})
	t.nodes[parent].children = append(t.nodes[parent].children, child)
	t.nodes[parent].tried = append(t.nodes[parent].tried, action)
	return child
}

// backup adds value to every node from i up to the root.
func (t *mctsTree) backup(i int, value float64) {
	for i != noParent {
		node := &t.nodes[i]
		node.visits++
		node.score += value
		i = node.parent
	}
}

// untried returns the legal actions of node i that have not produced a child yet.
func (t *mctsTree) untried(i int) []game.Action {
	node := &t.nodes[i]
	legal := node.state.LegalActions()
	untried := make([]game.Action, 0, len(legal))
	for _, action := range legal {
		if !utils.Contains(node.tried, action) {
			untried = append(untried, action)
		}
	}
	return untried
}
