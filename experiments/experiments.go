package experiments

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"titan/meta"
)

// Open builds the result store selected by the config.
func Open(ctx context.Context, cfg meta.ResultsConfig) (Store, error) {
	switch cfg.Driver {
	case "memory":
		return NewMemoryStore(), nil
	case "file":
		log.Info().Msgf("storing results in %s", cfg.Path)
		return NewFileStore(cfg.Path)
	case "postgres":
		store, err := NewPGStore(ctx, cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to open results database: %w", err)
		}
		log.Info().Msg("storing results in postgres")
		return store, nil
	default:
		return nil, fmt.Errorf("unknown results driver %q", cfg.Driver)
	}
}

// Standings reads every stored result and tallies the leaderboard.
func Standings(ctx context.Context, store Store) (Leaderboard, error) {
	results, err := store.ReadAll(ctx)
	if err != nil {
		return Leaderboard{}, fmt.Errorf("failed to read results: %w", err)
	}
	return NewLeaderboard(results), nil
}
