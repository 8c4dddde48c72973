package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"titan/meta"
)

func newTestState() *GameState {
	return NewGameState(NewBoard(), meta.TURN_TIME, meta.GAME_TIME)
}

func place(t *testing.T, gs *GameState, ids ...NodeID) []Event {
	t.Helper()
	var events []Event
	for _, id := range ids {
		applied, evs := gs.Place(id)
		require.True(t, applied, "place %s by %s", id, gs.CurrentPlayer)
		require.NoError(t, gs.CheckInvariants())
		events = append(events, evs...)
	}
	return events
}

// openingToMovement fills the outer ring and two middle nodes, leaving Red to
// move in the movement phase.
var openingToMovement = []NodeID{
	{1, 0}, {1, 1}, {1, 2}, {1, 3}, {1, 4}, {1, 5}, {2, 0}, {2, 3},
}

// arrange builds a position directly. During placement every titan on the
// board counts as placed; later phases treat both pools as spent.
func arrange(t *testing.T, phase Phase, unlocked int, toMove Player, occupants map[NodeID]Player) *GameState {
	t.Helper()
	gs := newTestState()
	for id, p := range occupants {
		idx, ok := gs.Board.IndexOf(id)
		require.True(t, ok)
		gs.Occupants[idx] = p
		gs.Players[p].TitansPlaced++
		gs.Players[p].TitansRemaining--
	}
	if phase != PlacementPhase {
		for _, p := range []Player{Red, Blue} {
			gs.Players[p].TitansPlaced = meta.TOTAL_TITANS
			gs.Players[p].TitansRemaining = 0
		}
	}
	gs.Phase = phase
	gs.UnlockedCircuit = unlocked
	gs.CurrentPlayer = toMove
	gs.scoreEdges()
	require.NoError(t, gs.CheckInvariants())
	return gs
}

func eventKinds(events []Event) []EventKind {
	kinds := make([]EventKind, len(events))
	for i, e := range events {
		kinds[i] = e.Kind
	}
	return kinds
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
