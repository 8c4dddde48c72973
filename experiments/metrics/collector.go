package metrics

import (
	"time"

	"titan/game"
)

// Collector receives match activity from the controller.
type Collector interface {
	Command(name string, applied bool)
	Event(e game.Event)
	MatchFinished(winner string, duration time.Duration)
	ResultPersisted(err error)
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Command(name string, applied bool)                   {}
func (m *dummyCollector) Event(e game.Event)                                  {}
func (m *dummyCollector) MatchFinished(winner string, duration time.Duration) {}
func (m *dummyCollector) ResultPersisted(err error)                           {}
