package game

import (
	"github.com/rs/zerolog/log"

	"titan/utils"
)

// eliminateSurrounded removes titans standing on an elimination node whose
// three neighbours all belong to the opponent. The titan is lost for good:
// it is not returned to its owner's pool.
func (gs *GameState) eliminateSurrounded() {
	eliminated := false
	for _, idx := range gs.Board.eliminable {
		owner := gs.Occupants[idx]
		if owner == None || !gs.surrounded(idx, owner) {
			continue
		}

		node := gs.Board.Nodes[idx].ID
		gs.Occupants[idx] = None
		gs.Log.Record(Move{Player: owner, Action: EliminateAction, Node: node})
		gs.emit(Event{Kind: TitanEliminated, Player: owner, Node: &node})
		eliminated = true

		log.Debug().Stringer("node", node).Stringer("player", owner).Msg("titan eliminated")
	}
	if eliminated {
		gs.scoreEdges()
	}
}

func (gs *GameState) surrounded(idx int, owner Player) bool {
	neighbours := gs.Board.Nodes[idx].AdjacentIDs
	if len(neighbours) != 3 {
		return false
	}
	return utils.All(neighbours, func(adj int) bool {
		return gs.Occupants[adj] == owner.Opponent()
	})
}
