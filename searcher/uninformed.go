package searcher

import "pursuit/game"

// BFS expands the tree level by level and plays toward the best leaf it finds.
type BFS struct {
	cfg config
}

func NewBFS(options ...Option) *BFS {
	return &BFS{cfg: newConfig(options)}
}

func (s *BFS) OnEpisodeStart(game.State) {}

func (s *BFS) ChooseAction(state game.State) game.Action {
	return s.cfg.treeSearch("bfs", state, &queue{}, nil)
}

// DFS expands the most recently discovered node first.
type DFS struct {
	cfg config
}

func NewDFS(options ...Option) *DFS {
	return &DFS{cfg: newConfig(options)}
}

func (s *DFS) OnEpisodeStart(game.State) {}

func (s *DFS) ChooseAction(state game.State) game.Action {
	return s.cfg.treeSearch("dfs", state, &stack{}, nil)
}

type queue struct {
	items []int
}

func (q *queue) add(index int, _ float64) {
	q.items = append(q.items, index)
}

func (q *queue) next() int {
	head := q.items[0]
	q.items = q.items[1:]
	return head
}

func (q *queue) empty() bool {
	return len(q.items) == 0
}

type stack struct {
	items []int
}

func (s *stack) add(index int, _ float64) {
	s.items = append(s.items, index)
}

func (s *stack) next() int {
	last := len(s.items) - 1
	top := s.items[last]
	s.items = s.items[:last]
	return top
}

func (s *stack) empty() bool {
	return len(s.items) == 0
}
