package game

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"titan/meta"
	"titan/utils"
)

type Phase int

const (
	PlacementPhase Phase = iota
	MovementPhase
	OverPhase
)

func (p Phase) String() string {
	switch p {
	case PlacementPhase:
		return "placement"
	case MovementPhase:
		return "movement"
	case OverPhase:
		return "over"
	default:
		return "unknown"
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// NoSelection marks an empty Selected slot.
const NoSelection = -1

type PlayerStats struct {
	Score           int `json:"score"`
	TitansPlaced    int `json:"titansPlaced"`
	TitansRemaining int `json:"titansRemaining"`
}

// GameState represents the dynamic state of a match: everything except the
// board topology, which is static.
type GameState struct {
	Board                *Board         // Reference to the static board
	Occupants            []Player       // Occupant per node, indexed by node index
	Control              []Player       // Controller per edge, indexed by edge index
	Phase                Phase          // The current phase of the game
	CurrentPlayer        Player         // The player holding priority
	Players              [3]PlayerStats // Per player, indexed by Player (None unused)
	UnlockedCircuit      int            // Innermost circuit open for play
	Selected             int            // Selected node index during movement, NoSelection otherwise
	Paused               bool
	TurnTime             time.Duration  // Per-turn budget
	GameTime             time.Duration  // Match-wide budget
	TurnTimeRemaining    time.Duration
	OverallTimeRemaining time.Duration
	Log                  MoveLog
	Won                  string         // RedWins, BlueWins or Draw once over, "" before

	events []Event
}

// NewGameState starts a match on the given board with the given clocks.
func NewGameState(b *Board, turnTime, gameTime time.Duration) *GameState {
	gs := &GameState{
		Board:                b,
		Occupants:            make([]Player, len(b.Nodes)),
		Control:              make([]Player, len(b.Edges)),
		Phase:                PlacementPhase,
		CurrentPlayer:        Red,
		UnlockedCircuit:      1,
		Selected:             NoSelection,
		TurnTime:             turnTime,
		GameTime:             gameTime,
		TurnTimeRemaining:    turnTime,
		OverallTimeRemaining: gameTime,
	}
	gs.Players[Red].TitansRemaining = meta.TOTAL_TITANS
	gs.Players[Blue].TitansRemaining = meta.TOTAL_TITANS
	return gs
}

func (gs GameState) Copy() *GameState {
	occupantsCopy := make([]Player, len(gs.Occupants))
	copy(occupantsCopy, gs.Occupants)

	controlCopy := make([]Player, len(gs.Control))
	copy(controlCopy, gs.Control)

	return &GameState{
		Board:                gs.Board, // Board is immutable
		Occupants:            occupantsCopy,
		Control:              controlCopy,
		Phase:                gs.Phase,
		CurrentPlayer:        gs.CurrentPlayer,
		Players:              gs.Players,
		UnlockedCircuit:      gs.UnlockedCircuit,
		Selected:             gs.Selected,
		Paused:               gs.Paused,
		TurnTime:             gs.TurnTime,
		GameTime:             gs.GameTime,
		TurnTimeRemaining:    gs.TurnTimeRemaining,
		OverallTimeRemaining: gs.OverallTimeRemaining,
		Log:                  gs.Log.Copy(),
		Won:                  gs.Won,
	}
}

// Occupant returns who holds a node, None for unknown ids.
func (gs *GameState) Occupant(id NodeID) Player {
	idx, ok := gs.Board.IndexOf(id)
	if !ok {
		return None
	}
	return gs.Occupants[idx]
}

// OnBoard counts the titans a player currently has on the board.
func (gs *GameState) OnBoard(p Player) int {
	return utils.Count(gs.Occupants, func(o Player) bool { return o == p })
}

// SelectedNode returns the selected node during movement.
func (gs *GameState) SelectedNode() (NodeID, bool) {
	if gs.Selected == NoSelection {
		return NodeID{}, false
	}
	return gs.Board.Nodes[gs.Selected].ID, true
}

func (gs *GameState) Over() bool {
	return gs.Phase == OverPhase
}

// Winner returns the outcome of the game, "" while it is still running.
func (gs *GameState) Winner() string {
	return gs.Won
}

// Hash covers the rules-relevant state. Clocks and the log are excluded.
func (gs *GameState) Hash() StateHash {
	hasher := fnv.New64a()

	binary.Write(hasher, binary.LittleEndian, int64(gs.CurrentPlayer))
	binary.Write(hasher, binary.LittleEndian, int64(gs.Phase))
	binary.Write(hasher, binary.LittleEndian, int64(gs.UnlockedCircuit))

	for _, occupant := range gs.Occupants {
		binary.Write(hasher, binary.LittleEndian, int64(occupant))
	}
	for _, controller := range gs.Control {
		binary.Write(hasher, binary.LittleEndian, int64(controller))
	}
	for _, p := range []Player{Red, Blue} {
		stats := gs.Players[p]
		binary.Write(hasher, binary.LittleEndian, int64(stats.Score))
		binary.Write(hasher, binary.LittleEndian, int64(stats.TitansPlaced))
		binary.Write(hasher, binary.LittleEndian, int64(stats.TitansRemaining))
	}

	return StateHash(hasher.Sum64())
}

// CheckInvariants verifies the bookkeeping that must hold after every
// command and tick.
func (gs *GameState) CheckInvariants() error {
	var errs []error

	for _, p := range []Player{Red, Blue} {
		stats := gs.Players[p]
		if stats.TitansPlaced+stats.TitansRemaining != meta.TOTAL_TITANS {
			errs = append(errs, fmt.Errorf("%s: placed %d + remaining %d != %d",
				p, stats.TitansPlaced, stats.TitansRemaining, meta.TOTAL_TITANS))
		}
		if got := gs.ControlledWeight(p); stats.Score != got {
			errs = append(errs, fmt.Errorf("%s: score %d != controlled weight %d", p, stats.Score, got))
		}
	}

	for i, e := range gs.Board.Edges {
		a, b := gs.Occupants[e.a], gs.Occupants[e.b]
		want := None
		if a != None && a == b {
			want = a
		}
		if gs.Control[i] != want {
			errs = append(errs, fmt.Errorf("edge %s-%s: controlled by %s, endpoints %s/%s",
				e.A, e.B, gs.Control[i], a, b))
		}
	}

	if gs.UnlockedCircuit < 1 || gs.UnlockedCircuit > meta.CIRCUITS {
		errs = append(errs, fmt.Errorf("unlocked circuit %d out of range", gs.UnlockedCircuit))
	}

	if gs.Selected != NoSelection {
		if gs.Phase != MovementPhase {
			errs = append(errs, fmt.Errorf("selection outside movement phase"))
		} else if gs.Occupants[gs.Selected] != gs.CurrentPlayer {
			errs = append(errs, fmt.Errorf("selected node %s not held by %s",
				gs.Board.Nodes[gs.Selected].ID, gs.CurrentPlayer))
		}
	}

	return errors.Join(errs...)
}

func (gs *GameState) emit(e Event) {
	gs.events = append(gs.events, e)
}

// drainEvents hands the pending events to the caller.
func (gs *GameState) drainEvents() []Event {
	events := gs.events
	gs.events = nil
	return events
}
