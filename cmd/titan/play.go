package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"titan/engine"
	"titan/experiments"
	"titan/game"
	"titan/gamemaster"
	"titan/meta"
)

var errQuit = errors.New("quit")

const playHelp = `commands:
  click <node>     place a titan, select one, or move the selected one (e.g. click node-1-0)
  pause | resume   stop or restart the clocks
  undo | redo      take back or replay a move
  reset            start a new match
  advanced on|off  show or hide undo, redo, history and the leaderboard
  board            print the board
  history          print the move history
  leaderboard      print the standings
  quit`

func runPlay(ctx context.Context, cfg meta.Config, args []string) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	advanced := fs.Bool("advanced", cfg.AdvancedMode, "Start in advanced mode")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg.AdvancedMode = *advanced

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore(store)

	ctrl := gamemaster.NewController(cfg, gamemaster.WithStore(store))
	defer ctrl.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		loop := engine.NewLoop(ctrl, cfg.TickInterval)
		if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("clock loop stopped")
		}
	}()
	go announce(ctx, ctrl.Updates())

	fmt.Println(playHelp)
	fmt.Println(renderBoard(ctrl.Snapshot()))

	sess := &session{ctrl: ctrl, store: store, out: os.Stdout}
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		err := sess.exec(ctx, scanner.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Println(err)
		}
	}
	return scanner.Err()
}

// announce prints lifecycle events as they happen, including the ones
// triggered by the clock loop.
func announce(ctx context.Context, updates <-chan gamemaster.Update) {
	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-updates:
			if !ok {
				return
			}
			for _, e := range u.Events {
				switch e.Kind {
				case game.TurnExpired:
					fmt.Printf("%s ran out of time. %s\n", e.Player, u.Snapshot.Status)
				case game.GameOver:
					fmt.Println(u.Snapshot.Status)
				}
			}
		}
	}
}

type session struct {
	ctrl  *gamemaster.Controller
	store experiments.Store
	out   io.Writer
}

func (s *session) exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	var snap gamemaster.Snapshot
	switch cmd := strings.ToLower(fields[0]); cmd {
	case "click", "place", "c":
		if len(fields) != 2 {
			return fmt.Errorf("usage: %s <node>", cmd)
		}
		id, err := game.ParseNodeID(fields[1])
		if err != nil {
			return err
		}
		snap = s.ctrl.Click(id)
	case "pause":
		snap = s.ctrl.Pause()
	case "resume":
		snap = s.ctrl.Resume()
	case "undo":
		snap = s.ctrl.Undo()
	case "redo":
		snap = s.ctrl.Redo()
	case "reset":
		snap = s.ctrl.Reset()
	case "advanced":
		if len(fields) != 2 || (fields[1] != "on" && fields[1] != "off") {
			return errors.New("usage: advanced on|off")
		}
		snap = s.ctrl.SetAdvancedMode(fields[1] == "on")
	case "board":
		snap = s.ctrl.Snapshot()
	case "history":
		snap = s.ctrl.Snapshot()
		if !snap.Affordances.History {
			return errors.New("history is only shown in advanced mode")
		}
		for i, h := range snap.History {
			fmt.Fprintf(s.out, "%3d. %s\n", i+1, h)
		}
		return nil
	case "leaderboard":
		if !s.ctrl.Snapshot().Affordances.Leaderboard {
			return errors.New("the leaderboard is only shown in advanced mode")
		}
		board, err := experiments.Standings(ctx, s.store)
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, board)
		return nil
	case "quit", "exit":
		return errQuit
	case "help":
		fmt.Fprintln(s.out, playHelp)
		return nil
	default:
		return fmt.Errorf("unknown command %q", fields[0])
	}

	fmt.Fprintln(s.out, renderBoard(snap))
	return nil
}

// renderBoard prints the rings from the outside in.
func renderBoard(snap gamemaster.Snapshot) string {
	var b strings.Builder
	for circuit := 1; circuit <= meta.CIRCUITS; circuit++ {
		fmt.Fprintf(&b, "ring %d:", circuit)
		for _, n := range snap.Nodes {
			if n.Circuit != circuit {
				continue
			}
			mark := "."
			switch {
			case !n.Unlocked:
				mark = "#"
			case n.Occupant == game.Red:
				mark = "R"
			case n.Occupant == game.Blue:
				mark = "B"
			}
			if n.ID == snap.Selected {
				mark = "[" + mark + "]"
			}
			fmt.Fprintf(&b, " %d:%s", n.Position, mark)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "red %d (%d left, %s)  blue %d (%d left, %s)\n",
		snap.Red.Score, snap.Red.TitansRemaining, snap.Red.Clock,
		snap.Blue.Score, snap.Blue.TitansRemaining, snap.Blue.Clock)
	b.WriteString(snap.Status)
	return b.String()
}
