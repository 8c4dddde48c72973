package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"titan/engine"
	"titan/experiments"
	"titan/experiments/metrics"
	"titan/gamemaster"
	"titan/meta"
	"titan/player"
)

const usage = `usage: titan [flags] <command> [command flags]

commands:
  play         play a match on the terminal, one command per line
  simulate     play random matches and store the results
  leaderboard  print the standings of all stored matches

flags:
`

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	setupLogging(*logLevel)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	switch args[0] {
	case "play":
		err = runPlay(ctx, cfg, args[1:])
	case "simulate":
		err = runSimulate(ctx, cfg, args[1:])
	case "leaderboard":
		err = runLeaderboard(ctx, cfg)
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msgf("%s failed", args[0])
	}
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}

func loadConfig(path string) (meta.Config, error) {
	if path == "" {
		return meta.Default(), nil
	}
	return meta.Load(path)
}

func runSimulate(ctx context.Context, cfg meta.Config, args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	games := fs.Int("games", 10, "Number of matches to play")
	seed := fs.Uint64("seed", uint64(time.Now().UnixNano()), "Seed for the random players")
	undoRate := fs.Float64("undo-rate", 0, "Probability that a player takes back the last move")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore(store)

	var collector metrics.Collector = metrics.NewDummyCollector()
	if cfg.MetricsAddr != "" {
		registry := metrics.NewRegistry()
		collector = registry
		go serveMetrics(cfg.MetricsAddr, registry)
	}

	for i := 0; i < *games; i++ {
		log.Info().Msgf("starting game %d of %d...", i+1, *games)

		ctrl := gamemaster.NewController(cfg, gamemaster.WithStore(store), gamemaster.WithCollector(collector))
		gameSeed := *seed + uint64(2*i)
		sim := engine.NewSimulation(ctrl,
			player.NewRandomPlayer(gameSeed, player.WithUndoRate(*undoRate)),
			player.NewRandomPlayer(gameSeed+1, player.WithUndoRate(*undoRate)),
		)

		snap, err := sim.Run(ctx)
		ctrl.Close()
		if err != nil {
			return err
		}
		log.Info().Msgf("completed game %d with winner: %s (%d-%d)", i+1, snap.Winner, snap.Red.Score, snap.Blue.Score)
	}

	return runLeaderboard(ctx, cfg)
}

func serveMetrics(addr string, registry *metrics.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", registry.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Info().Msgf("serving metrics on %s/metrics", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("metrics server stopped")
	}
}

func runLeaderboard(ctx context.Context, cfg meta.Config) error {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore(store)

	board, err := experiments.Standings(ctx, store)
	if err != nil {
		return err
	}
	fmt.Println(board)
	return nil
}

func openStore(ctx context.Context, cfg meta.Config) (experiments.Store, error) {
	store, err := experiments.Open(ctx, cfg.Results)
	if err != nil {
		return nil, fmt.Errorf("failed to open result store: %w", err)
	}
	return store, nil
}

func closeStore(store experiments.Store) {
	if c, ok := store.(io.Closer); ok {
		if err := c.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close result store")
		}
	}
}
