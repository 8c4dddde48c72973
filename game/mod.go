package game

import "fmt"

type Player int

const (
	None Player = iota
	Red
	Blue
)

func (p Player) String() string {
	switch p {
	case Red:
		return "red"
	case Blue:
		return "blue"
	default:
		return "none"
	}
}

// Opponent returns the other seat. None has no opponent.
func (p Player) Opponent() Player {
	switch p {
	case Red:
		return Blue
	case Blue:
		return Red
	default:
		return None
	}
}

func (p Player) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Player) UnmarshalText(text []byte) error {
	switch string(text) {
	case "red":
		*p = Red
	case "blue":
		*p = Blue
	case "none", "":
		*p = None
	default:
		return fmt.Errorf("unknown player %q", text)
	}
	return nil
}

// Outcomes stored in GameState.Won once the game is over.
const (
	RedWins  = "red"
	BlueWins = "blue"
	Draw     = "draw"
)

type StateHash uint64

type EventKind int

const (
	CircuitUnlocked EventKind = iota
	TitanEliminated
	TurnExpired
	GameOver
)

func (k EventKind) String() string {
	switch k {
	case CircuitUnlocked:
		return "circuit-unlocked"
	case TitanEliminated:
		return "titan-eliminated"
	case TurnExpired:
		return "turn-expired"
	case GameOver:
		return "game-over"
	default:
		return "unknown"
	}
}

func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Event is a lifecycle notification raised while applying a command or a tick.
// Only the fields relevant to Kind are set.
type Event struct {
	Kind    EventKind `json:"kind"`
	Circuit int       `json:"circuit,omitempty"`
	Player  Player    `json:"player,omitempty"`
	Node    *NodeID   `json:"node,omitempty"`
	Won     string    `json:"won,omitempty"`
}
