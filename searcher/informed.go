package searcher

import (
	"container/heap"

	"pursuit/game"
)

// AStar expands the cheapest node first, where the cost of a node is its depth plus
// the score it lost relative to the root.
type AStar struct {
	cfg config
}

func NewAStar(options ...Option) *AStar {
	return &AStar{cfg: newConfig(options)}
}

func (s *AStar) OnEpisodeStart(game.State) {}

func (s *AStar) ChooseAction(state game.State) game.Action {
	rootScore := s.cfg.evaluate(state)
	price := func(depth int, node game.State) float64 {
		return cost(depth, rootScore, s.cfg.evaluate(node))
	}
	return s.cfg.treeSearch("astar", state, &priorityQueue{}, price)
}

// cost is g + h with g the depth and h the score drop since the root. Improving on
// the root makes h negative.
func cost(depth int, rootScore, score float64) float64 {
	return float64(depth) + (rootScore - score)
}

type entry struct {
	index int
	cost  float64
	seq   int // Insertion order, breaks cost ties
}

// priorityQueue is a min-heap on cost, FIFO among equal costs.
type priorityQueue struct {
	entries []entry
	seq     int
}

func (pq *priorityQueue) Len() int { return len(pq.entries) }

func (pq *priorityQueue) Less(i, j int) bool {
	a, b := pq.entries[i], pq.entries[j]
	if a.cost != b.cost {
		return a.cost < b.cost
	}
	return a.seq < b.seq
}

func (pq *priorityQueue) Swap(i, j int) {
	pq.entries[i], pq.entries[j] = pq.entries[j], pq.entries[i]
}

func (pq *priorityQueue) Push(x any) {
	pq.entries = append(pq.entries, x.(entry))
}

func (pq *priorityQueue) Pop() any {
	last := len(pq.entries) - 1
	e := pq.entries[last]
	pq.entries = pq.entries[:last]
	return e
}

func (pq *priorityQueue) add(index int, cost float64) {
	heap.Push(pq, entry{index: index, cost: cost, seq: pq.seq})
	pq.seq++
}

func (pq *priorityQueue) next() int {
	return heap.Pop(pq).(entry).index
}

func (pq *priorityQueue) empty() bool {
	return pq.Len() == 0
}
