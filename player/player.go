package player

import (
	"time"

	"golang.org/x/exp/rand"

	"titan/game"
)

// Turn is what a player does on its turn: the node clicks to send and the
// time it spends thinking before sending them.
type Turn struct {
	Move   game.Move
	Clicks []game.NodeID
	Think  time.Duration
	Undo   bool
}

type Option func(*RandomPlayer)

// WithMaxThink sets an upper bound for the simulated thinking time.
func WithMaxThink(d time.Duration) Option {
	return func(p *RandomPlayer) {
		if d >= 0 {
			p.maxThink = d
		}
	}
}

// WithUndoRate makes the player take back the last move with the given
// probability instead of moving.
func WithUndoRate(rate float64) Option {
	return func(p *RandomPlayer) {
		if rate >= 0 && rate <= 1 {
			p.undoRate = rate
		}
	}
}

// RandomPlayer picks uniformly among the legal moves.
type RandomPlayer struct {
	rng      *rand.Rand
	maxThink time.Duration
	undoRate float64
}

func NewRandomPlayer(seed uint64, opts ...Option) *RandomPlayer {
	p := &RandomPlayer{
		rng:      rand.New(rand.NewSource(seed)),
		maxThink: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// TakeTurn decides on an action for the current player. It returns false
// when the player has nothing to do and must wait for its clock to run out.
func (p *RandomPlayer) TakeTurn(gs *game.GameState) (Turn, bool) {
	turn := Turn{Think: p.think()}

	if p.undoRate > 0 && gs.Log.CanUndo() && p.rng.Float64() < p.undoRate {
		turn.Undo = true
		return turn, true
	}

	moves := gs.LegalMoves()
	if len(moves) == 0 {
		return turn, false
	}

	move := moves[p.rng.Intn(len(moves))] // Random policy
	turn.Move = move
	turn.Clicks = Clicks(gs, move)
	return turn, true
}

func (p *RandomPlayer) think() time.Duration {
	if p.maxThink <= 0 {
		return 0
	}
	return time.Duration(p.rng.Int63n(int64(p.maxThink)))
}

// Clicks translates a move into the node clicks that perform it, dropping
// a stale selection first.
func Clicks(gs *game.GameState, m game.Move) []game.NodeID {
	if m.Action != game.MoveAction {
		return []game.NodeID{m.Node}
	}
	var clicks []game.NodeID
	if selected, ok := gs.SelectedNode(); ok {
		if selected == m.From {
			return []game.NodeID{m.Node}
		}
		clicks = append(clicks, selected)
	}
	return append(clicks, m.From, m.Node)
}
