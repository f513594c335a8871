package game

// Action is one of the four directions or Stop.
type Action int

const (
	North Action = iota
	South
	East
	West
	Stop
)

// Actions lists the full action space in canonical order.
var Actions = []Action{North, South, East, West, Stop}

func (a Action) String() string {
	switch a {
	case North:
		return "North"
	case South:
		return "South"
	case East:
		return "East"
	case West:
		return "West"
	case Stop:
		return "Stop"
	}
	return "Unknown"
}

// delta returns the grid offset for the action. Row 0 is the top of the layout.
func (a Action) delta() Point {
	switch a {
	case North:
		return Point{X: 0, Y: -1}
	case South:
		return Point{X: 0, Y: 1}
	case East:
		return Point{X: 1, Y: 0}
	case West:
		return Point{X: -1, Y: 0}
	}
	return Point{}
}

// ParseAction parses an action name as printed by String.
func ParseAction(name string) (Action, bool) {
	for _, a := range Actions {
		if a.String() == name {
			return a, true
		}
	}
	return Stop, false
}
