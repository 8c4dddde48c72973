package gamemaster

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"titan/experiments"
	"titan/game"
	"titan/meta"
)

var opening = []game.NodeID{
	{Circuit: 1, Position: 0}, {Circuit: 1, Position: 1},
	{Circuit: 1, Position: 2}, {Circuit: 1, Position: 3},
	{Circuit: 1, Position: 4}, {Circuit: 1, Position: 5},
	{Circuit: 2, Position: 0}, {Circuit: 2, Position: 3},
}

type failingStore struct{}

func (failingStore) Append(context.Context, experiments.Result) error {
	return errors.New("disk full")
}

func (failingStore) ReadAll(context.Context) ([]experiments.Result, error) {
	return nil, nil
}

type countingCollector struct {
	mu       sync.Mutex
	commands map[string]int
	events   []game.Event
	finished []string
	persist  []error
}

func newCountingCollector() *countingCollector {
	return &countingCollector{commands: map[string]int{}}
}

func (c *countingCollector) Command(name string, applied bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if applied {
		c.commands[name]++
	}
}

func (c *countingCollector) Event(e game.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *countingCollector) MatchFinished(winner string, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.finished = append(c.finished, winner)
}

func (c *countingCollector) ResultPersisted(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.persist = append(c.persist, err)
}

func TestControllerInit(t *testing.T) {
	ctrl := NewController(meta.Default())
	snap := ctrl.Snapshot()

	require.Len(t, snap.Nodes, 18)
	require.Len(t, snap.Edges, 24)
	require.Equal(t, game.PlacementPhase, snap.Phase)
	require.Equal(t, game.Red, snap.CurrentPlayer)
	require.Equal(t, 4, snap.Red.TitansRemaining)
	require.Equal(t, 1, snap.UnlockedCircuit)
	require.Equal(t, "Red Player's Turn (Placement Phase)", snap.Status)
	require.Equal(t, "0:30", snap.Red.Clock)
	require.Equal(t, "5:00", snap.Blue.Clock)
	require.True(t, snap.Red.Active)
	require.False(t, snap.AdvancedMode)
	require.Equal(t, Affordances{}, snap.Affordances)
	require.Empty(t, snap.History)

	n, ok := snap.Node(game.NodeID{Circuit: 2, Position: 0})
	require.True(t, ok)
	require.False(t, n.Unlocked)
}

func TestControllerCommands(t *testing.T) {
	t.Run("place publishes an update", func(t *testing.T) {
		ctrl := NewController(meta.Default())
		snap := ctrl.Place(opening[0])

		n, _ := snap.Node(opening[0])
		require.Equal(t, game.Red, n.Occupant)
		require.Equal(t, game.Blue, snap.CurrentPlayer)
		require.Equal(t, []string{"red place node-1-0"}, snap.History)
		require.Equal(t, 1, snap.Red.OnBoard)
		require.Equal(t, 3, snap.Red.TitansRemaining)

		u := <-ctrl.Updates()
		require.Equal(t, snap.Hash, u.Snapshot.Hash)
	})

	t.Run("ignored command returns the unchanged snapshot", func(t *testing.T) {
		ctrl := NewController(meta.Default())
		before := ctrl.Place(opening[0])
		u := <-ctrl.Updates()
		require.True(t, u.Applied)

		after := ctrl.Place(opening[0])
		require.Equal(t, before.Hash, after.Hash)

		u = <-ctrl.Updates()
		require.False(t, u.Applied)
		require.Empty(t, u.Events)
		require.Equal(t, before.Hash, u.Snapshot.Hash)
	})

	t.Run("unlock event is published", func(t *testing.T) {
		ctrl := NewController(meta.Default())
		for _, id := range opening[:6] {
			ctrl.Click(id)
		}

		var events []game.Event
		for len(ctrl.Updates()) > 0 {
			events = append(events, (<-ctrl.Updates()).Events...)
		}
		require.Equal(t, []game.Event{{Kind: game.CircuitUnlocked, Circuit: 2}}, events)
		require.Equal(t, 2, ctrl.Snapshot().UnlockedCircuit)
	})

	t.Run("movement through clicks", func(t *testing.T) {
		ctrl := NewController(meta.Default())
		for _, id := range opening {
			ctrl.Click(id)
		}

		snap := ctrl.Click(game.NodeID{Circuit: 2, Position: 0})
		require.Equal(t, "node-2-0", snap.Selected)
		require.Equal(t, "Red Player's Turn (Movement Phase)", snap.Status)

		snap = ctrl.Click(game.NodeID{Circuit: 2, Position: 1})
		require.Empty(t, snap.Selected)
		require.Equal(t, "red move node-2-0 -> node-2-1", snap.History[len(snap.History)-1])
		require.Equal(t, game.Blue, snap.CurrentPlayer)
	})

	t.Run("pause and resume", func(t *testing.T) {
		ctrl := NewController(meta.Default())

		snap := ctrl.Pause()
		require.True(t, snap.Paused)
		require.Equal(t, "Game Paused", snap.Status)

		snap = ctrl.Advance(10 * time.Second)
		require.Equal(t, "0:30", snap.Red.Clock)

		snap = ctrl.Place(opening[0])
		require.False(t, snap.CanUndo)

		snap = ctrl.TogglePause()
		require.False(t, snap.Paused)
		snap = ctrl.TogglePause()
		require.True(t, snap.Paused)
		snap = ctrl.Resume()
		require.False(t, snap.Paused)
	})

	t.Run("paused time accumulates across pauses", func(t *testing.T) {
		now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		ctrl := NewController(meta.Default(), WithClock(func() time.Time { return now }))

		ctrl.Pause()
		now = now.Add(3 * time.Second)
		require.Equal(t, 3*time.Second, ctrl.Snapshot().PausedTime)

		ctrl.Resume()
		now = now.Add(time.Minute)
		require.Equal(t, 3*time.Second, ctrl.Snapshot().PausedTime)

		ctrl.TogglePause()
		now = now.Add(2 * time.Second)
		snap := ctrl.Reset()
		require.False(t, snap.Paused)
		require.Equal(t, 5*time.Second, snap.PausedTime)
	})

	t.Run("undo and redo", func(t *testing.T) {
		ctrl := NewController(meta.Default())
		fresh := ctrl.Snapshot().Hash
		placed := ctrl.Place(opening[0]).Hash

		snap := ctrl.Undo()
		require.Equal(t, fresh, snap.Hash)
		require.True(t, snap.CanRedo)
		require.Empty(t, snap.History)

		snap = ctrl.Redo()
		require.Equal(t, placed, snap.Hash)
	})

	t.Run("clock ticks", func(t *testing.T) {
		ctrl := NewController(meta.Default())
		snap := ctrl.Advance(12 * time.Second)

		require.Equal(t, "0:18", snap.Red.Clock)
		require.Equal(t, "4:48", snap.Blue.Clock)

		snap = ctrl.Advance(18 * time.Second)
		require.Equal(t, game.Blue, snap.CurrentPlayer)
		require.Equal(t, "0:30", snap.Blue.Clock)
		require.Equal(t, "4:30", snap.Red.Clock)
	})
}

func TestControllerGameOver(t *testing.T) {
	t.Run("result is stored", func(t *testing.T) {
		store := experiments.NewMemoryStore()
		collector := newCountingCollector()
		stamp := time.Date(2024, 5, 4, 10, 0, 0, 0, time.UTC)
		ctrl := NewController(meta.Default(),
			WithStore(store),
			WithCollector(collector),
			WithClock(func() time.Time { return stamp }),
		)
		matchID := ctrl.Snapshot().MatchID

		ctrl.Place(opening[0])
		ctrl.Place(opening[3])
		ctrl.Place(opening[1])
		snap := ctrl.Advance(meta.GAME_TIME)

		require.True(t, snap.Over)
		require.Equal(t, game.RedWins, snap.Winner)
		require.Equal(t, "Game Over - Red Player Wins!", snap.Status)
		require.False(t, snap.Red.Active)

		results, err := store.ReadAll(context.Background())
		require.NoError(t, err)
		require.Equal(t, []experiments.Result{{
			MatchID:   matchID,
			Winner:    game.RedWins,
			RedScore:  1,
			BlueScore: 0,
			Timestamp: stamp,
		}}, results)
		require.Equal(t, []string{game.RedWins}, collector.finished)
		require.Equal(t, []error{nil}, collector.persist)

		// Further ticks do not finish the match twice.
		ctrl.Advance(time.Second)
		results, _ = store.ReadAll(context.Background())
		require.Len(t, results, 1)
	})

	t.Run("store failure is contained", func(t *testing.T) {
		collector := newCountingCollector()
		ctrl := NewController(meta.Default(), WithStore(failingStore{}), WithCollector(collector))

		snap := ctrl.Advance(meta.GAME_TIME)
		require.True(t, snap.Over)
		require.Equal(t, "Game Over - Draw!", snap.Status)
		require.Len(t, collector.persist, 1)
		require.Error(t, collector.persist[0])
	})
}

func TestControllerReset(t *testing.T) {
	ctrl := NewController(meta.Default())
	first := ctrl.Snapshot().MatchID
	ctrl.Place(opening[0])
	ctrl.Pause()

	snap := ctrl.Reset()
	require.NotEqual(t, first, snap.MatchID)
	require.False(t, snap.Paused)
	require.Empty(t, snap.History)
	require.Equal(t, 4, snap.Red.TitansRemaining)
	require.Equal(t, 1, snap.UnlockedCircuit)
}

func TestControllerAdvancedMode(t *testing.T) {
	ctrl := NewController(meta.Default())
	ctrl.Place(opening[0])
	first := ctrl.Snapshot().MatchID

	snap := ctrl.SetAdvancedMode(true)
	require.True(t, snap.AdvancedMode)
	require.Equal(t, Affordances{Undo: true, Redo: true, History: true, Leaderboard: true}, snap.Affordances)
	require.NotEqual(t, first, snap.MatchID, "switching modes starts a new match")
	require.Empty(t, snap.History)

	ctrl.Place(opening[0])
	snap = ctrl.SetAdvancedMode(true)
	require.Len(t, snap.History, 1, "unchanged mode keeps the match")

	snap = ctrl.SetAdvancedMode(false)
	require.Equal(t, Affordances{}, snap.Affordances)
	require.Empty(t, snap.History)
}

func TestControllerClose(t *testing.T) {
	ctrl := NewController(meta.Default())
	ctrl.Close()
	ctrl.Close()
	ctrl.Place(opening[0])

	_, ok := <-ctrl.Updates()
	require.False(t, ok)
}

func TestControllerConcurrentCommands(t *testing.T) {
	ctrl := NewController(meta.Default())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				ctrl.Click(opening[(i+j)%len(opening)])
				ctrl.Advance(time.Second)
				if j%7 == 0 {
					ctrl.Undo()
				}
			}
		}(i)
	}
	wg.Wait()

	require.NoError(t, ctrl.State().CheckInvariants())
}

func TestSnapshotJSON(t *testing.T) {
	ctrl := NewController(meta.Default())
	snap := ctrl.Place(opening[0])

	data, err := json.Marshal(snap)
	require.NoError(t, err)
	require.Contains(t, string(data), `"phase":"placement"`)
	require.Contains(t, string(data), `"currentPlayer":"blue"`)
	require.Contains(t, string(data), `"occupant":"red"`)
}

func TestFormatClock(t *testing.T) {
	for d, want := range map[time.Duration]string{
		0:                      "0:00",
		-time.Second:           "0:00",
		999 * time.Millisecond: "0:00",
		30 * time.Second:       "0:30",
		5 * time.Minute:        "5:00",
		4*time.Minute + 5*time.Second + 900*time.Millisecond: "4:05",
	} {
		require.Equal(t, want, FormatClock(d))
	}
}
