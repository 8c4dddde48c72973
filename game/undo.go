package game

// Undo reverses the last logged move and hands priority back to its player.
// Placements give the titan back to the pool and moves return it to its
// source. Eliminations are popped but the removed titan is not restored.
func (gs *GameState) Undo() (bool, []Event) {
	if gs.Paused || gs.Over() {
		return false, nil
	}
	m, ok := gs.Log.Undo()
	if !ok {
		return false, nil
	}

	target, _ := gs.Board.IndexOf(m.Node)
	switch m.Action {
	case PlaceAction:
		gs.Occupants[target] = None
		gs.Players[m.Player].TitansPlaced--
		gs.Players[m.Player].TitansRemaining++
		// The pool is no longer empty, so placement resumes.
		gs.Phase = PlacementPhase
	case MoveAction:
		source, _ := gs.Board.IndexOf(m.From)
		gs.Occupants[source] = m.Player
		gs.Occupants[target] = None
	case EliminateAction:
	}

	gs.scoreEdges()
	gs.Selected = NoSelection
	gs.TurnTimeRemaining = gs.TurnTime
	gs.CurrentPlayer = m.Player

	return true, gs.drainEvents()
}

// Redo re-applies the last undone move and passes priority forward.
func (gs *GameState) Redo() (bool, []Event) {
	if gs.Paused || gs.Over() {
		return false, nil
	}
	m, ok := gs.Log.Redo()
	if !ok {
		return false, nil
	}

	target, _ := gs.Board.IndexOf(m.Node)
	switch m.Action {
	case PlaceAction:
		gs.Occupants[target] = m.Player
		gs.Players[m.Player].TitansPlaced++
		gs.Players[m.Player].TitansRemaining--
	case MoveAction:
		source, _ := gs.Board.IndexOf(m.From)
		gs.Occupants[source] = None
		gs.Occupants[target] = m.Player
	case EliminateAction:
		if gs.Occupants[target] == m.Player {
			gs.Occupants[target] = None
		}
	}

	gs.scoreEdges()
	gs.unlockNextCircuit()
	gs.checkPlacementDone()
	if gs.Phase == MovementPhase && gs.innerCircuitFull() {
		gs.finish()
		return true, gs.drainEvents()
	}
	gs.endTurn()

	return true, gs.drainEvents()
}
