package experiments

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Result is the record of one finished match.
type Result struct {
	MatchID   uuid.UUID
	Winner    string // "red", "blue" or "draw"
	RedScore  int
	BlueScore int
	Timestamp time.Time
}

// Store persists finished matches for the leaderboard.
type Store interface {
	Append(ctx context.Context, r Result) error
	ReadAll(ctx context.Context) ([]Result, error)
}

type MemoryStore struct {
	mu      sync.Mutex
	results []Result
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(_ context.Context, r Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
	return nil
}

func (s *MemoryStore) ReadAll(_ context.Context) ([]Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Result, len(s.results))
	copy(out, s.results)
	return out, nil
}
