package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"titan/experiments"
	"titan/gamemaster"
	"titan/meta"
	"titan/player"
)

func TestSimulation(t *testing.T) {
	t.Run("random matches finish and are stored", func(t *testing.T) {
		store := experiments.NewMemoryStore()
		ctx := context.Background()

		for seed := uint64(1); seed <= 20; seed++ {
			ctrl := gamemaster.NewController(meta.Default(), gamemaster.WithStore(store))
			sim := NewSimulation(ctrl, player.NewRandomPlayer(seed), player.NewRandomPlayer(seed+1000))

			snap, err := sim.Run(ctx)
			require.NoError(t, err)
			require.True(t, snap.Over)
			require.Contains(t, []string{"red", "blue", "draw"}, snap.Winner)
			require.NoError(t, ctrl.State().CheckInvariants())
		}

		results, err := store.ReadAll(ctx)
		require.NoError(t, err)
		require.Len(t, results, 20)
		require.Equal(t, 20, experiments.NewLeaderboard(results).TotalGames)
	})

	t.Run("soak with undo", func(t *testing.T) {
		cfg := meta.Default()
		cfg.AdvancedMode = true
		cfg.GameTime = 2 * time.Minute
		ctrl := gamemaster.NewController(cfg)
		sim := NewSimulation(ctrl,
			player.NewRandomPlayer(7, player.WithUndoRate(0.2)),
			player.NewRandomPlayer(8, player.WithUndoRate(0.2), player.WithMaxThink(10*time.Second)),
		)

		snap, err := sim.Run(context.Background())
		require.NoError(t, err)
		require.True(t, snap.Over)
		require.NoError(t, ctrl.State().CheckInvariants())
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		ctrl := gamemaster.NewController(meta.Default())
		sim := NewSimulation(ctrl, player.NewRandomPlayer(1), player.NewRandomPlayer(2))

		_, err := sim.Run(ctx)
		require.ErrorIs(t, err, context.Canceled)
	})
}
