package searcher

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewUCB(t *testing.T) {
	t.Run("panics with zero parent visits", func(t *testing.T) {
		require.Panics(t, func() {
			newUCB(1.0, 0)
		}, "Should panic when N is 0")
	})
}

func TestUCBEvaluate(t *testing.T) {
	t.Run("computing UCB1 value", func(t *testing.T) {
		policy := newUCB(1.0, 100)
		got := policy.evaluate(0.5, 10)

		expected := 0.5 + math.Sqrt(math.Log(100)/10.0)
		require.InDelta(t, expected, got, 0.0001,
			"Should compute exploitation + C*sqrt(ln(N)/n)")
	})

	t.Run("panics with zero child visits", func(t *testing.T) {
		policy := newUCB(1.0, 100)

		require.Panics(t, func() {
			policy.evaluate(0.5, 0)
		}, "Should panic when n is 0")
	})

	t.Run("exploration term increases with parent visits", func(t *testing.T) {
		policy1 := newUCB(1.0, 100)
		policy2 := newUCB(1.0, 1000)

		require.Greater(t, policy2.evaluate(0.5, 10), policy1.evaluate(0.5, 10),
			"More parent visits should increase exploration term")
	})

	t.Run("exploration term decreases with child visits", func(t *testing.T) {
		policy := newUCB(1.0, 100)

		require.Greater(t, policy.evaluate(0.5, 10), policy.evaluate(0.5, 20),
			"More child visits should decrease exploration term")
	})

	t.Run("exploration vanishes with a zero constant", func(t *testing.T) {
		policy := newUCB(0, 100)

		require.Equal(t, 0.5, policy.evaluate(0.5, 10))
	})
}
