package game

import "time"

// Advance applies elapsed wall time to the clocks. It does nothing while the
// game is paused or over. An expired turn only passes priority; an expired
// game clock ends the match whatever the phase.
func (gs *GameState) Advance(elapsed time.Duration) []Event {
	if gs.Paused || gs.Over() || elapsed <= 0 {
		return nil
	}

	gs.OverallTimeRemaining -= elapsed
	gs.TurnTimeRemaining -= elapsed

	if gs.TurnTimeRemaining <= 0 {
		expired := gs.CurrentPlayer
		gs.endTurn()
		gs.emit(Event{Kind: TurnExpired, Player: expired})
	}

	if gs.OverallTimeRemaining <= 0 {
		gs.OverallTimeRemaining = 0
		gs.finish()
	}

	return gs.drainEvents()
}
