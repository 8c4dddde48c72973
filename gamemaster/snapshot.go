package gamemaster

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"titan/game"
)

type NodeView struct {
	ID       string      `json:"id"`
	Circuit  int         `json:"circuit"`
	Position int         `json:"position"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	Occupant game.Player `json:"occupant"`
	Unlocked bool        `json:"unlocked"`
}

type EdgeView struct {
	A            string      `json:"a"`
	B            string      `json:"b"`
	Weight       int         `json:"weight"`
	ControlledBy game.Player `json:"controlledBy"`
}

type PlayerView struct {
	Score           int    `json:"score"`
	TitansPlaced    int    `json:"titansPlaced"`
	TitansRemaining int    `json:"titansRemaining"`
	OnBoard         int    `json:"onBoard"`
	Clock           string `json:"clock"` // Turn clock on the player's turn, match clock otherwise
	Active          bool   `json:"active"`
}

// Affordances lists the optional controls the presentation layer shows.
type Affordances struct {
	Undo        bool `json:"undo"`
	Redo        bool `json:"redo"`
	History     bool `json:"history"`
	Leaderboard bool `json:"leaderboard"`
}

// Snapshot is the read-only projection of a match handed to renderers.
type Snapshot struct {
	MatchID              uuid.UUID      `json:"matchId"`
	Nodes                []NodeView     `json:"nodes"`
	Edges                []EdgeView     `json:"edges"`
	Phase                game.Phase     `json:"phase"`
	CurrentPlayer        game.Player    `json:"currentPlayer"`
	Red                  PlayerView     `json:"red"`
	Blue                 PlayerView     `json:"blue"`
	UnlockedCircuit      int            `json:"unlockedCircuit"`
	Paused               bool           `json:"paused"`
	Over                 bool           `json:"over"`
	Winner               string         `json:"winner,omitempty"`
	TurnTimeRemaining    time.Duration  `json:"turnTimeRemaining"`
	OverallTimeRemaining time.Duration  `json:"overallTimeRemaining"`
	PausedTime           time.Duration  `json:"pausedTime"`
	Selected             string         `json:"selected,omitempty"`
	History              []string       `json:"history"`
	CanUndo              bool           `json:"canUndo"`
	CanRedo              bool           `json:"canRedo"`
	AdvancedMode         bool           `json:"advancedMode"`
	Affordances          Affordances    `json:"affordances"`
	Status               string         `json:"status"`
	Hash                 game.StateHash `json:"hash"`
}

// Node looks up a node view by id.
func (s Snapshot) Node(id game.NodeID) (NodeView, bool) {
	for _, n := range s.Nodes {
		if n.ID == id.String() {
			return n, true
		}
	}
	return NodeView{}, false
}

func (c *Controller) snapshot() Snapshot {
	gs := c.state
	snap := Snapshot{
		MatchID:              c.matchID,
		Phase:                gs.Phase,
		CurrentPlayer:        gs.CurrentPlayer,
		UnlockedCircuit:      gs.UnlockedCircuit,
		Paused:               gs.Paused,
		Over:                 gs.Over(),
		Winner:               gs.Winner(),
		TurnTimeRemaining:    gs.TurnTimeRemaining,
		OverallTimeRemaining: gs.OverallTimeRemaining,
		PausedTime:           c.pausedTime(),
		CanUndo:              gs.Log.CanUndo(),
		CanRedo:              gs.Log.CanRedo(),
		AdvancedMode:         c.cfg.AdvancedMode,
		Affordances: Affordances{
			Undo:        c.cfg.AdvancedMode,
			Redo:        c.cfg.AdvancedMode,
			History:     c.cfg.AdvancedMode,
			Leaderboard: c.cfg.AdvancedMode,
		},
		Status: Status(gs),
		Hash:   gs.Hash(),
	}

	snap.Nodes = make([]NodeView, len(gs.Board.Nodes))
	for i, n := range gs.Board.Nodes {
		snap.Nodes[i] = NodeView{
			ID:       n.ID.String(),
			Circuit:  n.ID.Circuit,
			Position: n.ID.Position,
			X:        n.X,
			Y:        n.Y,
			Occupant: gs.Occupants[i],
			Unlocked: n.ID.Circuit <= gs.UnlockedCircuit,
		}
	}

	snap.Edges = make([]EdgeView, len(gs.Board.Edges))
	for i, e := range gs.Board.Edges {
		snap.Edges[i] = EdgeView{
			A:            e.A.String(),
			B:            e.B.String(),
			Weight:       e.Weight,
			ControlledBy: gs.Control[i],
		}
	}

	snap.Red = playerView(gs, game.Red)
	snap.Blue = playerView(gs, game.Blue)

	if id, ok := gs.SelectedNode(); ok {
		snap.Selected = id.String()
	}

	snap.History = make([]string, len(gs.Log.History))
	for i, m := range gs.Log.History {
		snap.History[i] = m.String()
	}

	return snap
}

func playerView(gs *game.GameState, p game.Player) PlayerView {
	stats := gs.Players[p]
	active := gs.CurrentPlayer == p && !gs.Over()
	clock := gs.OverallTimeRemaining
	if gs.CurrentPlayer == p {
		clock = gs.TurnTimeRemaining
	}
	return PlayerView{
		Score:           stats.Score,
		TitansPlaced:    stats.TitansPlaced,
		TitansRemaining: stats.TitansRemaining,
		OnBoard:         gs.OnBoard(p),
		Clock:           FormatClock(clock),
		Active:          active,
	}
}

// Status is the one line summary shown above the board.
func Status(gs *game.GameState) string {
	switch {
	case gs.Over():
		switch gs.Winner() {
		case game.RedWins:
			return "Game Over - Red Player Wins!"
		case game.BlueWins:
			return "Game Over - Blue Player Wins!"
		default:
			return "Game Over - Draw!"
		}
	case gs.Paused:
		return "Game Paused"
	default:
		phase := "Placement Phase"
		if gs.Phase == game.MovementPhase {
			phase = "Movement Phase"
		}
		return fmt.Sprintf("%s Player's Turn (%s)", seat(gs.CurrentPlayer), phase)
	}
}

func seat(p game.Player) string {
	if p == game.Blue {
		return "Blue"
	}
	return "Red"
}

// FormatClock renders a duration as m:ss, truncating to whole seconds.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	minutes := int(d / time.Minute)
	seconds := int(d%time.Minute) / int(time.Second)
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}
