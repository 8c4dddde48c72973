package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"titan/gamemaster"
)

// Ticker delivers wall time to a controller's clocks.
type Ticker interface {
	Advance(elapsed time.Duration) gamemaster.Snapshot
	Snapshot() gamemaster.Snapshot
}

type Option func(*Loop)

// WithClock replaces the wall clock the loop measures elapsed time with.
func WithClock(now func() time.Time) Option {
	return func(l *Loop) {
		l.now = now
	}
}

// Loop is the host side timer: it measures real elapsed time between ticks
// and advances the match by it. Wall time the target reports as paused is
// never charged.
type Loop struct {
	target   Ticker
	interval time.Duration
	now      func() time.Time
	last     time.Time
	paused   time.Duration // Target's paused time as of last
	over     bool
}

func NewLoop(target Ticker, interval time.Duration, opts ...Option) *Loop {
	l := &Loop{
		target:   target,
		interval: interval,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.mark(l.target.Snapshot())
	return l
}

// Run ticks until the context is cancelled. It outlives individual matches,
// so a reset match gets its clocks driven too.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.mark(l.target.Snapshot())
	for {
		select {
		case <-ticker.C:
			l.Tick()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Tick advances the match by the unpaused time since the previous charge.
// While the match is paused the measurement is held, so play on either side
// of a pause is charged once it resumes.
func (l *Loop) Tick() gamemaster.Snapshot {
	snap := l.target.Snapshot()
	switch {
	case snap.Over:
		if !l.over {
			l.over = true
			log.Info().Msgf("match %s is over, clock idle", snap.MatchID)
		}
		l.mark(snap)
		return snap
	case snap.Paused:
		return snap
	}
	l.over = false

	now := l.now()
	elapsed := now.Sub(l.last) - (snap.PausedTime - l.paused)
	l.last = now
	l.paused = snap.PausedTime
	if elapsed <= 0 {
		return snap
	}
	return l.target.Advance(elapsed)
}

func (l *Loop) mark(snap gamemaster.Snapshot) {
	l.last = l.now()
	l.paused = snap.PausedTime
}
