package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustLayout(t *testing.T, text string) *Layout {
	t.Helper()
	l, err := ParseLayout("test", text)
	require.NoError(t, err)
	return l
}

func TestLegalActions(t *testing.T) {
	t.Run("excluding moves into walls", func(t *testing.T) {
		l, err := BuiltinLayout("tiny")
		require.NoError(t, err)
		gs := NewGameState(l)

		require.Equal(t, []Action{South, East, Stop}, gs.LegalActions())
		require.Equal(t, Actions, gs.AllActions(), "Full action space should ignore walls")
	})

	t.Run("returning no actions in a terminal state", func(t *testing.T) {
		gs := NewGameState(mustLayout(t, "%%%%%%\n%PG .%\n%%%%%%"))
		next, err := gs.Successor(East)
		require.NoError(t, err)

		require.True(t, next.IsLose())
		require.Empty(t, next.LegalActions())
	})
}

func TestSuccessor(t *testing.T) {
	t.Run("moving the agent then the ghosts", func(t *testing.T) {
		l, err := BuiltinLayout("tiny")
		require.NoError(t, err)
		gs := NewGameState(l)

		next, err := gs.Successor(East)
		require.NoError(t, err)
		got := next.(*GameState)

		require.Equal(t, Point{X: 2, Y: 1}, got.Agent)
		require.Equal(t, []Point{{X: 5, Y: 2}}, got.Ghosts, "Ghost should step closer to the agent")
		require.Equal(t, -TimePenalty, got.Score)
		require.Equal(t, 1, got.Turn)
		require.Equal(t, Point{X: 1, Y: 1}, gs.Agent, "Original state should not change")
		require.Equal(t, []Point{{X: 5, Y: 3}}, gs.Ghosts, "Original state should not change")
	})

	t.Run("treating an illegal move as stop", func(t *testing.T) {
		l, err := BuiltinLayout("tiny")
		require.NoError(t, err)
		gs := NewGameState(l)

		next, err := gs.Successor(North)
		require.NoError(t, err)
		require.Equal(t, gs.Agent, next.(*GameState).Agent)
	})

	t.Run("winning by eating the last food", func(t *testing.T) {
		gs := NewGameState(mustLayout(t, "%%%%\n%P.%\n%%%%"))

		next, err := gs.Successor(East)
		require.NoError(t, err)

		require.True(t, next.IsWin())
		require.False(t, next.IsLose())
		require.Equal(t, -TimePenalty+FoodReward+WinReward, next.(*GameState).Score)
	})

	t.Run("losing by walking into a ghost", func(t *testing.T) {
		gs := NewGameState(mustLayout(t, "%%%%%%\n%PG .%\n%%%%%%"))

		next, err := gs.Successor(East)
		require.NoError(t, err)

		require.True(t, next.IsLose())
		require.Equal(t, -TimePenalty-LosePenalty, next.(*GameState).Score)
	})

	t.Run("failing on a terminal state", func(t *testing.T) {
		gs := NewGameState(mustLayout(t, "%%%%\n%P.%\n%%%%"))
		won, err := gs.Successor(East)
		require.NoError(t, err)

		_, err = won.Successor(Stop)
		require.ErrorIs(t, err, ErrTerminalState)
		require.ErrorIs(t, err, ErrSimulatorFailure)
	})
}

func TestBudget(t *testing.T) {
	t.Run("failing once the shared budget is spent", func(t *testing.T) {
		l, err := BuiltinLayout("tiny")
		require.NoError(t, err)
		gs := NewGameState(l).WithBudget(2)

		first, err := gs.Successor(East)
		require.NoError(t, err)
		_, err = first.Successor(East)
		require.NoError(t, err)

		_, err = gs.Successor(South)
		require.True(t, errors.Is(err, ErrBudgetExhausted), "Budget should be shared by derived states")
		require.ErrorIs(t, err, ErrSimulatorFailure)
		require.Equal(t, 2, gs.SuccessorsGenerated())
	})

	t.Run("resetting the budget on a new copy", func(t *testing.T) {
		l, err := BuiltinLayout("tiny")
		require.NoError(t, err)
		gs := NewGameState(l).WithBudget(1)
		_, err = gs.Successor(East)
		require.NoError(t, err)

		fresh := gs.WithBudget(1)
		_, err = fresh.Successor(East)
		require.NoError(t, err)
		require.Equal(t, 1, fresh.SuccessorsGenerated())
	})

	t.Run("playing without charging the budget", func(t *testing.T) {
		l, err := BuiltinLayout("tiny")
		require.NoError(t, err)
		gs := NewGameState(l).WithBudget(1)

		next := gs.Play(East).Play(West)
		require.Equal(t, 0, next.SuccessorsGenerated())
		require.Equal(t, 2, next.Turn)
	})
}

func TestString(t *testing.T) {
	l, err := BuiltinLayout("tiny")
	require.NoError(t, err)
	gs := NewGameState(l)

	require.Equal(t, "%%%%%%%\n%P  ..%\n% %%% %\n%.   G%\n%%%%%%%\nturn=0 score=0 food=3", gs.String())
}
