package gamemaster

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"titan/experiments"
	"titan/experiments/metrics"
	"titan/game"
	"titan/meta"
)

const (
	updateBuffer   = 16
	persistTimeout = 5 * time.Second
)

// Update is published to subscribers after every command or tick, including
// the ones the rules rejected. Applied tells the two apart.
type Update struct {
	Snapshot Snapshot
	Events   []game.Event
	Applied  bool
}

// Controller owns one match at a time and serialises every command and
// clock tick against it.
type Controller struct {
	mu        sync.Mutex
	cfg       meta.Config
	state     *game.GameState
	matchID   uuid.UUID
	store     experiments.Store
	collector metrics.Collector
	now       func() time.Time
	updates   chan Update
	closed    bool

	pausedAt    time.Time     // Start of the pause in progress
	pausedTotal time.Duration // Completed pauses over the controller's lifetime
}

type Option func(*Controller)

// WithStore persists finished matches to the given store.
func WithStore(store experiments.Store) Option {
	return func(c *Controller) {
		c.store = store
	}
}

func WithCollector(collector metrics.Collector) Option {
	return func(c *Controller) {
		c.collector = collector
	}
}

// WithClock replaces the wall clock used to timestamp results and to measure
// pauses.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

func NewController(cfg meta.Config, opts ...Option) *Controller {
	c := &Controller{
		cfg:       cfg,
		store:     experiments.NewMemoryStore(),
		collector: metrics.NewDummyCollector(),
		now:       time.Now,
		updates:   make(chan Update, updateBuffer),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.reset()
	return c
}

// Updates delivers snapshots as they change. Slow readers miss
// intermediate updates; the next Snapshot call is always current.
func (c *Controller) Updates() <-chan Update {
	return c.updates
}

// Close stops publishing updates.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.updates)
	}
}

func (c *Controller) Place(id game.NodeID) Snapshot {
	return c.command("place", func(gs *game.GameState) (bool, []game.Event) {
		return gs.Place(id)
	})
}

// Click routes a node click to placement or movement by phase.
func (c *Controller) Click(id game.NodeID) Snapshot {
	return c.command("click", func(gs *game.GameState) (bool, []game.Event) {
		return gs.Click(id)
	})
}

func (c *Controller) Pause() Snapshot {
	return c.command("pause", func(gs *game.GameState) (bool, []game.Event) {
		return gs.Pause(), nil
	})
}

func (c *Controller) Resume() Snapshot {
	return c.command("resume", func(gs *game.GameState) (bool, []game.Event) {
		return gs.Resume(), nil
	})
}

// TogglePause pauses a running game and resumes a paused one.
func (c *Controller) TogglePause() Snapshot {
	return c.command("toggle-pause", func(gs *game.GameState) (bool, []game.Event) {
		if gs.Paused {
			return gs.Resume(), nil
		}
		return gs.Pause(), nil
	})
}

func (c *Controller) Undo() Snapshot {
	return c.command("undo", func(gs *game.GameState) (bool, []game.Event) {
		return gs.Undo()
	})
}

func (c *Controller) Redo() Snapshot {
	return c.command("redo", func(gs *game.GameState) (bool, []game.Event) {
		return gs.Redo()
	})
}

// Advance applies elapsed wall time to the match clocks.
func (c *Controller) Advance(elapsed time.Duration) Snapshot {
	return c.command("advance", func(gs *game.GameState) (bool, []game.Event) {
		if gs.Paused || gs.Over() || elapsed <= 0 {
			return false, nil
		}
		return true, gs.Advance(elapsed)
	})
}

// Reset replaces the board, log and clocks with a fresh match.
func (c *Controller) Reset() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	wasPaused := c.state.Paused
	c.reset()
	c.trackPause(wasPaused)
	c.collector.Command("reset", true)
	snap := c.snapshot()
	c.publish(Update{Snapshot: snap, Applied: true})
	return snap
}

// SetAdvancedMode switches the advanced affordances on or off. Any change
// starts a new match.
func (c *Controller) SetAdvancedMode(enabled bool) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	applied := c.cfg.AdvancedMode != enabled
	if applied {
		wasPaused := c.state.Paused
		c.cfg.AdvancedMode = enabled
		c.reset()
		c.trackPause(wasPaused)
		log.Info().Bool("advanced", enabled).Msg("advanced mode changed")
	}
	c.collector.Command("advanced-mode", applied)
	snap := c.snapshot()
	c.publish(Update{Snapshot: snap, Applied: applied})
	return snap
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// State returns a copy of the rules state for read-only use.
func (c *Controller) State() *game.GameState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Copy()
}

func (c *Controller) command(name string, apply func(*game.GameState) (bool, []game.Event)) Snapshot {
	c.mu.Lock()
	wasPaused := c.state.Paused
	applied, events := apply(c.state)
	c.trackPause(wasPaused)
	c.collector.Command(name, applied)

	var finished *experiments.Result
	for _, e := range events {
		c.collector.Event(e)
		c.logEvent(e)
		if e.Kind == game.GameOver {
			finished = c.result()
			c.collector.MatchFinished(e.Won, c.state.GameTime-c.state.OverallTimeRemaining)
		}
	}

	snap := c.snapshot()
	if applied && name != "advance" {
		log.Debug().Str("command", name).Uint64("hash", uint64(snap.Hash)).Msg("command applied")
	}
	c.publish(Update{Snapshot: snap, Events: events, Applied: applied})
	c.mu.Unlock()

	if finished != nil {
		c.persist(*finished)
	}
	return snap
}

func (c *Controller) reset() {
	c.state = game.NewGameState(game.NewBoard(), c.cfg.TurnTime, c.cfg.GameTime)
	c.matchID = uuid.New()
	log.Info().Msgf("match %s started", c.matchID)
}

// trackPause books wall time against pauses as the state enters or leaves
// one.
func (c *Controller) trackPause(wasPaused bool) {
	switch paused := c.state.Paused; {
	case paused && !wasPaused:
		c.pausedAt = c.now()
	case !paused && wasPaused:
		c.pausedTotal += c.now().Sub(c.pausedAt)
	}
}

// pausedTime is the wall time spent paused so far, the current pause
// included. It never decreases.
func (c *Controller) pausedTime() time.Duration {
	if c.state.Paused {
		return c.pausedTotal + c.now().Sub(c.pausedAt)
	}
	return c.pausedTotal
}

func (c *Controller) result() *experiments.Result {
	return &experiments.Result{
		MatchID:   c.matchID,
		Winner:    c.state.Winner(),
		RedScore:  c.state.Players[game.Red].Score,
		BlueScore: c.state.Players[game.Blue].Score,
		Timestamp: c.now(),
	}
}

// persist runs outside the lock. Failures never reach the rules engine.
func (c *Controller) persist(r experiments.Result) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	err := c.store.Append(ctx, r)
	c.collector.ResultPersisted(err)
	if err != nil {
		log.Error().Err(err).Msgf("failed to store result of match %s", r.MatchID)
		return
	}
	log.Debug().Msgf("stored result of match %s", r.MatchID)
}

func (c *Controller) publish(u Update) {
	if c.closed {
		return
	}
	select {
	case c.updates <- u:
	default:
		log.Debug().Msg("update dropped, subscriber is behind")
	}
}

func (c *Controller) logEvent(e game.Event) {
	switch e.Kind {
	case game.CircuitUnlocked:
		log.Info().Msgf("circuit %d unlocked", e.Circuit)
	case game.TitanEliminated:
		log.Info().Msgf("%s titan eliminated at %s", e.Player, e.Node)
	case game.TurnExpired:
		log.Info().Msgf("%s ran out of turn time", e.Player)
	case game.GameOver:
		log.Info().Msgf("match %s over, winner: %s", c.matchID, e.Won)
	}
}
