package searcher

import "math"

type ucb struct {
	constant float64
	logN     float64
}

func newUCB(constant float64, N int) *ucb {
	if N == 0 {
		panic("N cannot be 0")
	}
	return &ucb{constant: constant, logN: math.Log(float64(N))}
}

func (u ucb) evaluate(exploitation float64, n int) float64 {
	if n == 0 {
		panic("n cannot be 0")
	}
	// UCB1 = exploitation + C*sqrt(ln(N)/n)
	return exploitation + u.constant*math.Sqrt(u.logN/float64(n))
}
