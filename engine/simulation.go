package engine

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"titan/game"
	"titan/gamemaster"
	"titan/player"
)

const MaxMoves = 10000

// Simulation plays a match on a controller with one automated player per
// seat, charging each player's thinking time to the match clocks.
type Simulation struct {
	Controller *gamemaster.Controller
	Players    map[game.Player]*player.RandomPlayer
}

func NewSimulation(ctrl *gamemaster.Controller, red, blue *player.RandomPlayer) *Simulation {
	return &Simulation{
		Controller: ctrl,
		Players: map[game.Player]*player.RandomPlayer{
			game.Red:  red,
			game.Blue: blue,
		},
	}
}

// Run executes the match until it is over.
func (s *Simulation) Run(ctx context.Context) (gamemaster.Snapshot, error) {
	snap := s.Controller.Snapshot()
	log.Info().Msgf("simulating match %s", snap.MatchID)

	for turns := 1; !snap.Over; turns++ {
		if err := ctx.Err(); err != nil {
			return snap, err
		}
		if turns > MaxMoves {
			return snap, fmt.Errorf("match %s not finished after %d turns", snap.MatchID, MaxMoves)
		}

		state := s.Controller.State()
		turn, ok := s.Players[state.CurrentPlayer].TakeTurn(state)
		if !ok {
			// Nothing to play: let the turn clock run out.
			snap = s.Controller.Advance(state.TurnTimeRemaining)
			continue
		}

		snap = s.Controller.Advance(turn.Think)
		if snap.Over || snap.CurrentPlayer != state.CurrentPlayer {
			// Thought for too long.
			continue
		}
		if turn.Undo {
			snap = s.Controller.Undo()
			continue
		}
		for _, id := range turn.Clicks {
			snap = s.Controller.Click(id)
		}
		log.Debug().Msgf("turn %d: %s", turns, turn.Move)
	}

	log.Info().Msgf("match %s finished: %s", snap.MatchID, snap.Status)
	return snap, nil
}
