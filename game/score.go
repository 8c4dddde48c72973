package game

// ControlChange records an edge changing hands during reconciliation.
type ControlChange struct {
	A, B   NodeID
	Weight int
	From   Player
	To     Player
}

// reconcileEdges re-derives control of every edge from occupancy and applies
// the score deltas. It scans all edges on each call so that scores and
// Control can never drift apart.
func (gs *GameState) reconcileEdges() []ControlChange {
	var changes []ControlChange
	for i, e := range gs.Board.Edges {
		a, b := gs.Occupants[e.a], gs.Occupants[e.b]
		controller := None
		if a != None && a == b {
			controller = a
		}

		previous := gs.Control[i]
		if previous == controller {
			continue
		}
		if previous != None {
			gs.Players[previous].Score -= e.Weight
		}
		if controller != None {
			gs.Players[controller].Score += e.Weight
		}
		gs.Control[i] = controller
		changes = append(changes, ControlChange{A: e.A, B: e.B, Weight: e.Weight, From: previous, To: controller})
	}
	return changes
}

// ControlledWeight sums the weights of the edges a player currently controls.
func (gs *GameState) ControlledWeight(p Player) int {
	total := 0
	for i, e := range gs.Board.Edges {
		if gs.Control[i] == p {
			total += e.Weight
		}
	}
	return total
}

// outcome compares scores.
func (gs *GameState) outcome() string {
	red, blue := gs.Players[Red].Score, gs.Players[Blue].Score
	switch {
	case red > blue:
		return RedWins
	case blue > red:
		return BlueWins
	default:
		return Draw
	}
}
