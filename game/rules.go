package game

import (
	"github.com/rs/zerolog/log"

	"titan/meta"
	"titan/utils"
)

// Place puts a titan of the current player on a free, unlocked node.
// Anything else is ignored and reported as not applied.
func (gs *GameState) Place(id NodeID) (bool, []Event) {
	if gs.Phase != PlacementPhase || gs.Paused {
		return false, nil
	}
	idx, ok := gs.playable(id)
	if !ok || gs.Occupants[idx] != None {
		return false, nil
	}
	player := gs.CurrentPlayer
	stats := &gs.Players[player]
	if stats.TitansRemaining == 0 {
		return false, nil
	}

	gs.Occupants[idx] = player
	stats.TitansPlaced++
	stats.TitansRemaining--
	gs.Log.Record(Move{Player: player, Action: PlaceAction, Node: id})

	gs.scoreEdges()
	gs.unlockNextCircuit()
	gs.checkPlacementDone()
	gs.eliminateSurrounded()
	gs.endTurn()

	return true, gs.drainEvents()
}

// Select handles a click during the movement phase: pick one of the current
// player's titans, click it again to drop the selection, or click a free
// adjacent node to move there. Other clicks keep the selection.
func (gs *GameState) Select(id NodeID) (bool, []Event) {
	if gs.Phase != MovementPhase || gs.Paused {
		return false, nil
	}
	idx, ok := gs.playable(id)
	if !ok {
		return false, nil
	}

	if gs.Selected == NoSelection {
		if gs.Occupants[idx] != gs.CurrentPlayer {
			return false, nil
		}
		gs.Selected = idx
		return true, nil
	}

	if idx == gs.Selected {
		gs.Selected = NoSelection
		return true, nil
	}

	if gs.Occupants[idx] != None || !gs.Board.adjacent(gs.Selected, idx) {
		return false, nil
	}

	from := gs.Selected
	player := gs.CurrentPlayer
	gs.Occupants[from] = None
	gs.Occupants[idx] = player
	gs.Selected = NoSelection
	gs.Log.Record(Move{Player: player, Action: MoveAction, Node: id, From: gs.Board.Nodes[from].ID})

	gs.scoreEdges()
	gs.unlockNextCircuit()
	if gs.innerCircuitFull() {
		gs.finish()
		return true, gs.drainEvents()
	}
	gs.eliminateSurrounded()
	gs.endTurn()

	return true, gs.drainEvents()
}

// Click dispatches a node click according to the phase.
func (gs *GameState) Click(id NodeID) (bool, []Event) {
	switch gs.Phase {
	case PlacementPhase:
		return gs.Place(id)
	case MovementPhase:
		return gs.Select(id)
	default:
		return false, nil
	}
}

// Pause stops the clocks and rejects commands until Resume.
func (gs *GameState) Pause() bool {
	if gs.Paused || gs.Over() {
		return false
	}
	gs.Paused = true
	return true
}

func (gs *GameState) Resume() bool {
	if !gs.Paused || gs.Over() {
		return false
	}
	gs.Paused = false
	return true
}

// playable resolves an id that lies within the unlocked circuits.
func (gs *GameState) playable(id NodeID) (int, bool) {
	if id.Circuit > gs.UnlockedCircuit {
		return 0, false
	}
	return gs.Board.IndexOf(id)
}

func (gs *GameState) scoreEdges() {
	for _, c := range gs.reconcileEdges() {
		log.Debug().
			Str("edge", c.A.String()+"/"+c.B.String()).
			Stringer("from", c.From).
			Stringer("to", c.To).
			Int("weight", c.Weight).
			Msg("edge control changed")
	}
}

// unlockNextCircuit opens the next ring once the currently unlocked one is
// fully occupied. Rings unlocked earlier are not inspected again.
func (gs *GameState) unlockNextCircuit() {
	if gs.UnlockedCircuit >= meta.CIRCUITS {
		return
	}
	if !gs.circuitFull(gs.UnlockedCircuit) {
		return
	}
	gs.UnlockedCircuit++
	gs.emit(Event{Kind: CircuitUnlocked, Circuit: gs.UnlockedCircuit})
}

func (gs *GameState) innerCircuitFull() bool {
	return gs.circuitFull(meta.CIRCUITS)
}

func (gs *GameState) circuitFull(circuit int) bool {
	return utils.All(gs.Board.CircuitNodes(circuit), func(idx int) bool {
		return gs.Occupants[idx] != None
	})
}

// checkPlacementDone moves to the movement phase once both pools are empty.
func (gs *GameState) checkPlacementDone() {
	if gs.Phase != PlacementPhase {
		return
	}
	if gs.Players[Red].TitansRemaining == 0 && gs.Players[Blue].TitansRemaining == 0 {
		gs.Phase = MovementPhase
	}
}

// endTurn resets the turn clock and passes priority.
func (gs *GameState) endTurn() {
	gs.TurnTimeRemaining = gs.TurnTime
	gs.Selected = NoSelection
	gs.CurrentPlayer = gs.NextPlayer()
}

func (gs *GameState) NextPlayer() Player {
	if gs.CurrentPlayer == Red {
		return Blue
	}
	return Red
}

// finish ends the game and decides the winner on score.
func (gs *GameState) finish() {
	if gs.Over() {
		return
	}
	gs.Phase = OverPhase
	gs.Selected = NoSelection
	gs.Won = gs.outcome()
	gs.emit(Event{Kind: GameOver, Won: gs.Won})
}

// LegalMoves returns every placement or movement the current player can make.
func (gs *GameState) LegalMoves() []Move {
	if gs.Paused {
		return nil
	}
	var moves []Move
	player := gs.CurrentPlayer
	switch gs.Phase {
	case PlacementPhase:
		if gs.Players[player].TitansRemaining == 0 {
			return nil
		}
		for idx, n := range gs.Board.Nodes {
			if n.ID.Circuit <= gs.UnlockedCircuit && gs.Occupants[idx] == None {
				moves = append(moves, Move{Player: player, Action: PlaceAction, Node: n.ID})
			}
		}
	case MovementPhase:
		for idx, n := range gs.Board.Nodes {
			if gs.Occupants[idx] != player {
				continue
			}
			for _, adj := range n.AdjacentIDs {
				target := gs.Board.Nodes[adj]
				if target.ID.Circuit <= gs.UnlockedCircuit && gs.Occupants[adj] == None {
					moves = append(moves, Move{Player: player, Action: MoveAction, Node: target.ID, From: n.ID})
				}
			}
		}
	}
	return moves
}
