package game

import "fmt"

// ActionType represents the kind of a logged move.
type ActionType int

const (
	PlaceAction ActionType = iota
	MoveAction
	EliminateAction
)

func (a ActionType) String() string {
	switch a {
	case PlaceAction:
		return "place"
	case MoveAction:
		return "move"
	case EliminateAction:
		return "eliminate"
	default:
		return "unknown"
	}
}

func (a ActionType) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Move is one entry of the move log. For eliminations Player is the owner of
// the removed titan.
type Move struct {
	Player Player     `json:"player"`
	Action ActionType `json:"action"`
	Node   NodeID     `json:"node"`
	From   NodeID     `json:"from"` // Source node, MoveAction only
}

func (m Move) String() string {
	if m.Action == MoveAction {
		return fmt.Sprintf("%s %s %s -> %s", m.Player, m.Action, m.From, m.Node)
	}
	return fmt.Sprintf("%s %s %s", m.Player, m.Action, m.Node)
}
