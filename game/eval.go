package game

// Scorer is implemented by states that carry a game score.
type Scorer interface {
	GameScore() float64
}

func (gs *GameState) GameScore() float64 {
	return float64(gs.Score)
}

// ScoreEvaluation evaluates a state by its game score
func ScoreEvaluation(s State) float64 {
	scorer, ok := s.(Scorer)
	if !ok {
		panic("unexpected state type")
	}
	return scorer.GameScore()
}

// NormalizedScoreEvaluation scores candidate relative to baseline, scaled so that a
// win or loss swing stays within about one unit
func NormalizedScoreEvaluation(baseline, candidate State) float64 {
	return normalize(ScoreEvaluation(candidate), ScoreEvaluation(baseline))
}

// normalize scales the difference between value and reference down by 1000
func normalize(value float64, reference float64) float64 {
	return (value - reference) / 1000.0
}

// DistanceEvaluation adds a small bonus for being close to the nearest food to the
// game score, so that otherwise equal states prefer progress toward food
func DistanceEvaluation(s State) float64 {
	gs, ok := s.(*GameState)
	if !ok {
		return ScoreEvaluation(s)
	}
	score := float64(gs.Score)
	if gs.FoodLeft == 0 {
		return score
	}

	nearest := -1
	for i, f := range gs.food {
		if !f {
			continue
		}
		p := Point{X: i % gs.layout.Width, Y: i / gs.layout.Width}
		if d := manhattan(p, gs.Agent); nearest < 0 || d < nearest {
			nearest = d
		}
	}
	return score + 1.0/float64(1+nearest)
}

var evaluations = map[string]Evaluate{
	"score":    ScoreEvaluation,
	"distance": DistanceEvaluation,
}

// LookupEvaluation returns a named evaluation function; the empty name selects "score".
func LookupEvaluation(name string) (Evaluate, bool) {
	if name == "" {
		name = "score"
	}
	evaluate, ok := evaluations[name]
	return evaluate, ok
}
