package game

import (
	"fmt"
	"strings"
)

// Score changes applied by the rules
const (
	TimePenalty = 1
	FoodReward  = 10
	WinReward   = 500
	LosePenalty = 500
)

// budget caps the number of successors generated from every state sharing it.
type budget struct {
	limit int
	used  int
}

// GameState is the dynamic state of a grid pursuit game. The agent eats food while
// ghosts chase it; the layout is shared and never modified.
type GameState struct {
	layout   *Layout
	Agent    Point
	Ghosts   []Point
	food     []bool
	FoodLeft int
	Score    int
	Turn     int
	Won      bool
	Lost     bool
	budget   *budget
}

// NewGameState initializes a game at the layout's starting positions.
func NewGameState(l *Layout) *GameState {
	gs := &GameState{
		layout: l,
		Agent:  l.agent,
		Ghosts: make([]Point, len(l.ghosts)),
		food:   make([]bool, len(l.food)),
	}
	copy(gs.Ghosts, l.ghosts)
	copy(gs.food, l.food)
	for _, f := range gs.food {
		if f {
			gs.FoodLeft++
		}
	}
	if gs.FoodLeft == 0 {
		gs.Won = true
	}
	return gs
}

func (gs *GameState) copy() *GameState {
	ghosts := make([]Point, len(gs.Ghosts))
	copy(ghosts, gs.Ghosts)
	food := make([]bool, len(gs.food))
	copy(food, gs.food)

	return &GameState{
		layout:   gs.layout,
		Agent:    gs.Agent,
		Ghosts:   ghosts,
		food:     food,
		FoodLeft: gs.FoodLeft,
		Score:    gs.Score,
		Turn:     gs.Turn,
		Won:      gs.Won,
		Lost:     gs.Lost,
		budget:   gs.budget,
	}
}

// WithBudget returns a copy whose Successor calls, and those of every state derived
// from it, fail with ErrBudgetExhausted after limit successors. A non-positive
// limit removes the budget.
func (gs *GameState) WithBudget(limit int) *GameState {
	out := gs.copy()
	out.budget = nil
	if limit > 0 {
		out.budget = &budget{limit: limit}
	}
	return out
}

// SuccessorsGenerated returns how many successors were charged to the budget.
func (gs *GameState) SuccessorsGenerated() int {
	if gs.budget == nil {
		return 0
	}
	return gs.budget.used
}

func (gs *GameState) Layout() *Layout {
	return gs.layout
}

func (gs *GameState) HasFood(p Point) bool {
	return gs.layout.inside(p) && gs.food[gs.layout.index(p)]
}

func (gs *GameState) IsWin() bool {
	return gs.Won
}

func (gs *GameState) IsLose() bool {
	return gs.Lost
}

func (gs *GameState) AllActions() []Action {
	actions := make([]Action, len(Actions))
	copy(actions, Actions)
	return actions
}

func (gs *GameState) LegalActions() []Action {
	if gs.Won || gs.Lost {
		return []Action{}
	}
	return legalMoves(gs.layout, gs.Agent, true)
}

func legalMoves(l *Layout, from Point, withStop bool) []Action {
	actions := make([]Action, 0, len(Actions))
	for _, a := range Actions {
		if a == Stop {
			if withStop {
				actions = append(actions, a)
			}
			continue
		}
		if !l.isWall(from.add(a.delta())) {
			actions = append(actions, a)
		}
	}
	return actions
}

func (gs *GameState) Successor(action Action) (State, error) {
	if gs.Won || gs.Lost {
		return nil, ErrTerminalState
	}
	if gs.budget != nil {
		if gs.budget.used >= gs.budget.limit {
			return nil, ErrBudgetExhausted
		}
		gs.budget.used++
	}
	return gs.step(action), nil
}

// Play advances the game without charging the successor budget. Playing from a
// terminal state returns the state unchanged.
func (gs *GameState) Play(action Action) *GameState {
	if gs.Won || gs.Lost {
		return gs
	}
	return gs.step(action)
}

func (gs *GameState) step(action Action) *GameState {
	next := gs.copy()
	next.Turn++

	// Illegal moves leave the agent in place
	target := next.Agent.add(action.delta())
	if !gs.layout.isWall(target) {
		next.Agent = target
	}
	next.Score -= TimePenalty

	if next.collides() {
		next.lose()
		return next
	}

	if idx := gs.layout.index(next.Agent); next.food[idx] {
		next.food[idx] = false
		next.FoodLeft--
		next.Score += FoodReward
		if next.FoodLeft == 0 {
			next.Won = true
			next.Score += WinReward
			return next
		}
	}

	next.moveGhosts()
	if next.collides() {
		next.lose()
	}
	return next
}

func (gs *GameState) lose() {
	gs.Lost = true
	gs.Score -= LosePenalty
}

func (gs *GameState) collides() bool {
	for _, g := range gs.Ghosts {
		if g == gs.Agent {
			return true
		}
	}
	return false
}

// moveGhosts moves every ghost one step closer to the agent, ties broken by action order.
func (gs *GameState) moveGhosts() {
	for i, g := range gs.Ghosts {
		best := g
		bestDist := manhattan(g, gs.Agent)
		for _, a := range legalMoves(gs.layout, g, false) {
			p := g.add(a.delta())
			if d := manhattan(p, gs.Agent); d < bestDist {
				best = p
				bestDist = d
			}
		}
		gs.Ghosts[i] = best
	}
}

// String renders the board followed by the score line.
func (gs *GameState) String() string {
	var sb strings.Builder
	for y := 0; y < gs.layout.Height; y++ {
		for x := 0; x < gs.layout.Width; x++ {
			p := Point{X: x, Y: y}
			sb.WriteByte(gs.cell(p))
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "turn=%d score=%d food=%d", gs.Turn, gs.Score, gs.FoodLeft)
	return sb.String()
}

func (gs *GameState) cell(p Point) byte {
	for _, g := range gs.Ghosts {
		if g == p {
			return 'G'
		}
	}
	switch {
	case gs.Agent == p:
		return 'P'
	case gs.layout.isWall(p):
		return '%'
	case gs.HasFood(p):
		return '.'
	}
	return ' '
}
